package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
)

// resolveUsers fetches the reduced projections for a set of user
// references in a single query. Unknown ids resolve to zero values so
// callers render dangling references instead of failing.
func resolveUsers(ctx context.Context, udb databases.UserDatabase, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	resolved := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	unique := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	users, err := udb.Find(ctx, bson.M{"_id": bson.M{"$in": unique}})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		resolved[u.ID] = u.Summary()
	}
	return resolved, nil
}
