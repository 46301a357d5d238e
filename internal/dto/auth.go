package dto

import "github.com/nutratech/prf-api/internal/models"

// RegisterRequest creates a requestor account.
type RegisterRequest struct {
	FullName       string  `json:"fullName" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	OutlookEmail   *string `json:"outlookEmail" binding:"omitempty,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	DepartmentID   *string `json:"departmentId"`
	DepartmentType *string `json:"departmentType"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a fresh pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenPair is the issued credential set.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// AuthResponse bundles tokens with the authenticated profile.
type AuthResponse struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}
