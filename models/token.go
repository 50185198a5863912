package models

// LoginResponse carries the signed session token and the reduced user
// projection returned on a successful login
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}
