package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognised by the platform
const (
	RoleStudent = "Student"
	RoleAlumni  = "Alumni"
	RoleAdmin   = "Admin"
)

// SocialLinks holds the optional profile links for a user
type SocialLinks struct {
	Github   string `json:"github" bson:"github"`
	Linkedin string `json:"linkedin" bson:"linkedin"`
	Website  string `json:"website" bson:"website"`
}

// User holds the structure for the users collection in mongo.
// Password is the bcrypt hash and must never be serialized to JSON.
type User struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name              string             `json:"name" bson:"name"`
	Email             string             `json:"email" bson:"email"`
	Password          string             `json:"-" bson:"password"`
	Role              string             `json:"role" bson:"role"`
	IsVerified        bool               `json:"isVerified" bson:"isVerified"`
	VerificationToken string             `json:"-" bson:"verificationToken,omitempty"`
	IsApproved        bool               `json:"isApproved" bson:"isApproved"`
	ProfileImage      string             `json:"profileImage" bson:"profileImage"`
	Department        string             `json:"department" bson:"department"`
	Batch             string             `json:"batch" bson:"batch"`
	RollNumber        string             `json:"rollNumber,omitempty" bson:"rollNumber,omitempty"`
	CurrentCompany    string             `json:"currentCompany,omitempty" bson:"currentCompany,omitempty"`
	JobRole           string             `json:"jobRole,omitempty" bson:"jobRole,omitempty"`
	Bio               string             `json:"bio" bson:"bio"`
	Skills            []string           `json:"skills" bson:"skills"`
	About             string             `json:"about" bson:"about"`
	Location          string             `json:"location" bson:"location"`
	SocialLinks       SocialLinks        `json:"socialLinks" bson:"socialLinks"`
	CreatedAt         primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt         primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the reduced projection returned on login and when
// resolving references to other users
type UserSummary struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Role           string             `json:"role" bson:"role"`
	Department     string             `json:"department,omitempty" bson:"department,omitempty"`
	CurrentCompany string             `json:"currentCompany,omitempty" bson:"currentCompany,omitempty"`
	JobRole        string             `json:"jobRole,omitempty" bson:"jobRole,omitempty"`
	ProfileImage   string             `json:"profileImage" bson:"profileImage"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
}

// Summary converts a full user document into its reduced projection
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Department:     u.Department,
		CurrentCompany: u.CurrentCompany,
		JobRole:        u.JobRole,
		ProfileImage:   u.ProfileImage,
		Location:       u.Location,
	}
}
