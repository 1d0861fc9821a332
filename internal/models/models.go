package models

import "time"

// We use 'db' tags for sqlx to automatically map
// the database column names (snake_case) to our Go fields (CamelCase).

// Contribution payment methods.
const (
	MethodCash   = "cash"
	MethodOnline = "online"
)

// Contribution statuses. Cash contributions are inserted as success.
// Online contributions start pending and move to success only when the
// gateway webhook confirms payment. Pending rows nobody ever paid for
// are swept to expired after a configurable TTL.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusExpired = "expired"
)

// User represents an account that can sign in.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Event is a single event being organized.
type Event struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Venue       string    `db:"venue" json:"venue"`
	EventDate   time.Time `db:"event_date" json:"event_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PlanItem is one line of an event's budget plan.
type PlanItem struct {
	ID            int64     `db:"id" json:"id"`
	EventID       int64     `db:"event_id" json:"event_id"`
	Name          string    `db:"name" json:"name"`
	Category      string    `db:"category" json:"category"`
	EstimatedCost float64   `db:"estimated_cost" json:"estimated_cost"`
	ActualCost    float64   `db:"actual_cost" json:"actual_cost"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Contribution is one ledger row of money pledged toward an event.
type Contribution struct {
	ID          int64     `db:"id" json:"id"`
	EventID     int64     `db:"event_id" json:"event_id"`
	Contributor string    `db:"contributor" json:"contributor"`
	Amount      float64   `db:"amount" json:"amount"`
	Method      string    `db:"method" json:"method"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
