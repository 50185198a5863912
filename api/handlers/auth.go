package handlers

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kgcas/alumni-connect-api/api"
	"github.com/kgcas/alumni-connect-api/config"
	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
	templates "github.com/kgcas/alumni-connect-api/templates/html"
)

// Auth handles the account lifecycle: registration, verification,
// login and the admin approval workflow
type Auth struct {
	DB     databases.UserDatabase
	Config config.Config
}

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Department     string `json:"department"`
	Batch          string `json:"batch"`
	RollNumber     string `json:"rollNumber"`
	CurrentCompany string `json:"currentCompany"`
	JobRole        string `json:"jobRole"`
}

// RegisterHandler creates an unverified account and dispatches the
// one-time verification code. Re-registering an unverified email
// overwrites the previous attempt with fresh credentials and a fresh
// code; a verified email is a hard duplicate.
func (a Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Department == "" || req.Batch == "" {
		config.ErrorStatus("missing required fields", http.StatusBadRequest, w, fmt.Errorf("name, email, password, department and batch are required"))
		return
	}
	if req.Role != models.RoleStudent && req.Role != models.RoleAlumni && req.Role != models.RoleAdmin {
		config.ErrorStatus("invalid role", http.StatusBadRequest, w, fmt.Errorf("role must be Student, Alumni or Admin"))
		return
	}
	if !strings.HasSuffix(req.Email, "@"+a.Config.AllowedEmailDomain) {
		config.ErrorStatus("email domain not allowed", http.StatusBadRequest, w, fmt.Errorf("only @%s emails are allowed", a.Config.AllowedEmailDomain))
		return
	}

	// role-conditional attributes, never both sets on one account
	if req.Role != models.RoleStudent {
		req.RollNumber = ""
	}
	if req.Role != models.RoleAlumni {
		req.CurrentCompany = ""
		req.JobRole = ""
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := a.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil && err != mongo.ErrNoDocuments {
		config.ErrorStatus("failed to check for existing account", http.StatusInternalServerError, w, err)
		return
	}
	if existing != nil && existing.IsVerified {
		config.ErrorStatus("email already registered", http.StatusBadRequest, w, fmt.Errorf("duplicate account"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	otp := fmt.Sprintf("%04d", 1000+rand.Intn(9000))
	now := primitive.NewDateTimeFromTime(time.Now())

	if existing != nil {
		// abandoned verification flow, overwrite in place and
		// invalidate the previous code
		update := bson.M{"$set": bson.M{
			"name":              req.Name,
			"password":          string(hashedPassword),
			"role":              req.Role,
			"department":        req.Department,
			"batch":             req.Batch,
			"rollNumber":        req.RollNumber,
			"currentCompany":    req.CurrentCompany,
			"jobRole":           req.JobRole,
			"verificationToken": otp,
			"isVerified":        false,
			"isApproved":        false,
			"updatedAt":         now,
		}}
		if _, err := a.DB.UpdateOne(ctx, bson.M{"email": req.Email}, update); err != nil {
			config.ErrorStatus("failed to refresh unverified account", http.StatusInternalServerError, w, err)
			return
		}
	} else {
		user := models.User{
			ID:                primitive.NewObjectID(),
			Name:              req.Name,
			Email:             req.Email,
			Password:          string(hashedPassword),
			Role:              req.Role,
			IsVerified:        false,
			VerificationToken: otp,
			IsApproved:        false,
			Department:        req.Department,
			Batch:             req.Batch,
			RollNumber:        req.RollNumber,
			CurrentCompany:    req.CurrentCompany,
			JobRole:           req.JobRole,
			Skills:            []string{},
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if _, err := a.DB.InsertOne(ctx, user); err != nil {
			config.ErrorStatus("failed to create account", http.StatusInternalServerError, w, err)
			return
		}
	}

	// Send the code in the background. A send failure never fails the
	// registration call, the user can re-register to get a fresh code.
	go sendOTPEmail(req.Email, otp)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Registration successful! Please verify with the code sent to your email.",
	})
}

func sendOTPEmail(email, code string) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Errorw("panic in sendOTPEmail", "email", email, "panic", rec)
		}
	}()

	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		zap.S().Errorw("SENDGRID_API_KEY not set, cannot send email", "email", email)
		return
	}

	from := mail.NewEmail("AlumniConnect", "no-reply@kgcas.com")
	subject := "AlumniConnect Email Verification Code"
	to := mail.NewEmail("", email)
	plainTextContent := "Your AlumniConnect verification code is: " + code
	htmlContent := templates.RenderOTP(code)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send verification email", "email", email, "error", err)
		return
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		zap.S().Infow("verification email sent", "email", email, "statusCode", response.StatusCode)
	} else {
		zap.S().Warnw("verification email sent with non-2xx status", "email", email, "statusCode", response.StatusCode, "body", response.Body)
	}
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTPHandler flips isVerified on an exact code match and clears
// the stored code so it cannot be replayed. A mismatch leaves the
// stored code untouched.
func (a Auth) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := a.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	if req.OTP == "" || user.VerificationToken != req.OTP {
		config.ErrorStatus("invalid verification code", http.StatusBadRequest, w, fmt.Errorf("code mismatch"))
		return
	}

	update := bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": primitive.NewDateTimeFromTime(time.Now())},
		"$unset": bson.M{"verificationToken": ""},
	}
	if _, err := a.DB.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		config.ErrorStatus("failed to verify account", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Email verified successfully! Wait for admin approval.",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates and issues a signed session token. A
// missing account and a wrong password return the same error so
// accounts cannot be enumerated.
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := a.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusBadRequest, w, fmt.Errorf("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusBadRequest, w, fmt.Errorf("invalid credentials"))
		return
	}

	if !user.IsVerified {
		config.ErrorStatus("email not verified", http.StatusForbidden, w, fmt.Errorf("verify your email before logging in"))
		return
	}
	if !user.IsApproved {
		config.ErrorStatus("account pending approval", http.StatusForbidden, w, fmt.Errorf("your account is pending admin approval"))
		return
	}

	now := time.Now()
	claims := api.SessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.Config.JWTSecret))
	if err != nil {
		config.ErrorStatus("failed to sign session token", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.LoginResponse{Token: signed, User: user.Summary()})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PendingUsersHandler returns every account still waiting for admin approval
func (a Auth) PendingUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := a.DB.Find(ctx, bson.M{"isApproved": false})
	if err != nil {
		config.ErrorStatus("failed to get pending users", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.User{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ApproveUserHandler flips isApproved, the final gate before login
func (a Auth) ApproveUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := a.DB.UpdateOne(ctx, bson.M{"_id": uID}, bson.M{"$set": bson.M{
		"isApproved": true,
		"updatedAt":  primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to approve user", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, fmt.Errorf("no user with id %s", userID))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "User approved successfully!",
	})
}

// RejectUserHandler deletes the account outright. There is no
// soft-delete, the email becomes free for a fresh registration.
func (a Auth) RejectUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	deleted, err := a.DB.DeleteOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to reject user", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, fmt.Errorf("no user with id %s", userID))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "User rejected and removed.",
	})
}
