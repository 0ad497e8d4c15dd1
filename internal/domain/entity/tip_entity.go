package entity

import (
	"time"
)

// Tip is an immutable record of a completed tip payment. Amounts are in minor
// currency units (cents). CreatorShare + PlatformFee always equals Amount.
// StripeSessionID is unique and acts as the idempotency key for webhook retries.
type Tip struct {
	ID              string    `json:"id"`
	ProfileID       string    `json:"profile_id"`
	Amount          int64     `json:"amount"`
	CreatorShare    int64     `json:"creator_share"`
	PlatformFee     int64     `json:"platform_fee"`
	TipperEmail     string    `json:"-"`
	StripeSessionID string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// MonthlyTipStats is the derived earnings summary for one calendar month.
// Zero values are valid and mean "no tips", not an error.
type MonthlyTipStats struct {
	TotalAmount   int64 `json:"total_amount"`
	TipCount      int64 `json:"tip_count"`
	TotalEarnings int64 `json:"total_earnings"`
	PlatformFees  int64 `json:"platform_fees"`
}

// PageView is a single public-profile visit, kept for dashboard analytics.
type PageView struct {
	ID        string
	ProfileID string
	IP        string
	UserAgent string
	CreatedAt time.Time
}

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
