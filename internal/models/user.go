package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is a registered requestor able to submit and track PRFs.
type User struct {
	ID             int64     `db:"id" json:"id"`
	FullName       string    `db:"full_name" json:"fullName"`
	Email          string    `db:"email" json:"email"`
	OutlookEmail   *string   `db:"outlook_email" json:"outlookEmail,omitempty"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	DepartmentID   *string   `db:"department_id" json:"departmentId,omitempty"`
	DepartmentType *string   `db:"department_type" json:"departmentType,omitempty"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	LastLoginAt    *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

// RefreshToken is an opaque long-lived credential exchangeable for access tokens.
type RefreshToken struct {
	ID        string     `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"userId"`
	Token     string     `db:"token" json:"-"`
	ExpiresAt time.Time  `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	Revoked   bool       `db:"revoked" json:"revoked"`
	RevokedAt *time.Time `db:"revoked_at" json:"revokedAt,omitempty"`
}

// JWTClaims carries the authenticated identity through request handling.
type JWTClaims struct {
	UserID   int64  `json:"uid"`
	FullName string `json:"name"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Pagination describes list slicing metadata in response envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
