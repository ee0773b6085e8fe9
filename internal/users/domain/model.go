package domain

import (
	"errors"
	"time"
)

const (
	// DefaultCredits is the starting grant for a newly signed-in user.
	DefaultCredits = 100

	// DefaultPlan is the subscription plan assigned at first sign-in.
	DefaultPlan = "free"
)

var ErrUserNotFound = errors.New("user not found")

// User is an authenticated principal's account record. Email is the
// natural lookup key and is matched exactly as the auth provider
// returned it.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Credits     int       `json:"credits"`
	Plan        string    `json:"subscription_plan"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpsertUser carries the provider-supplied profile for first-sign-in
// creation or refresh.
type UpsertUser struct {
	Email       string
	DisplayName string
	PhotoURL    string
}
