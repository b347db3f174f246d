package authapi

import "time"

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type checkRequest struct {
	SessionToken string `json:"sessionToken"`
}

type logoutRequest struct {
	SessionToken string `json:"sessionToken"`
}

type updateUserRequest struct {
	SessionToken string `json:"sessionToken"`
	Password     string `json:"password"`
}

// envelope is the common response shape; operation-specific responses embed
// it so every reply carries {error, status}.
type envelope struct {
	Error  bool   `json:"error"`
	Status string `json:"status"`
}

type registerResponse struct {
	envelope
	SessionToken string `json:"sessionToken,omitempty"`
	UserID       string `json:"userId,omitempty"`
}

type loginResponse struct {
	envelope
	SessionToken string `json:"sessionToken,omitempty"`
}

type checkResponse struct {
	envelope
	UserID string `json:"userId,omitempty"`
}

type sessionInfo struct {
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sessionsResponse struct {
	envelope
	Sessions []sessionInfo `json:"sessions,omitempty"`
}
