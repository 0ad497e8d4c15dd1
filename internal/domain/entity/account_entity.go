package entity

import (
	"time"
)

// Account is the aggregate root for a paid user identity.
// Passwords are stored as bcrypt hashes in PasswordHash.
//
// Email, Username and StripeSessionID are unique; StripeSessionID is the
// idempotency key tying the account to the checkout session that paid for it.
type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	StripeCustomerID string    `json:"-"`
	StripeSessionID  string    `json:"-"`
	IsAdmin          bool      `json:"is_admin"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Profile is the public link-in-bio page owned 1:1 by an Account.
type Profile struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	DisplayName   string    `json:"display_name"`
	Bio           string    `json:"bio"`
	ImageURL      string    `json:"image_url"`
	TipJarEnabled bool      `json:"tip_jar_enabled"`
	TipJarMessage string    `json:"tip_jar_message"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Link is a single entry on a profile page. Deletes are soft (IsActive=false)
// so click history survives.
type Link struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Icon         string    `json:"icon"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	Clicks       int64     `json:"clicks"`
	CreatedAt    time.Time `json:"created_at"`
}
