package domain

import "time"

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	CampaignActive   CampaignStatus = "active"
	CampaignPaused   CampaignStatus = "paused"
	CampaignArchived CampaignStatus = "archived"
)

// Campaign represents one awareness exercise. Click events reference it by
// name, which is unique.
type Campaign struct {
	ID          string         `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Status      CampaignStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Template is a reusable email body with a subject line. The body may contain
// the {{LINK_TEXT}} placeholder marking where a tracking link is injected,
// plus Liquid variables ({{ name }}, {{ campaign }}) resolved per recipient.
type Template struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Subject     string    `json:"subject" db:"subject"`
	Body        string    `json:"body" db:"body"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Employee is a tracked member of the organization. Dept feeds the click
// identity key.
type Employee struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	EmployeeID string `json:"employee_id" db:"employee_id"`
	Email      string `json:"email" db:"email"`
	Dept       string `json:"dept" db:"dept"`
}

// Operator is a dashboard user allowed to run campaigns.
type Operator struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	IsActive     bool       `json:"is_active" db:"is_active"`
}
