package model

import "time"

type ComplaintStatus string

const (
	ComplaintOpen       ComplaintStatus = "open"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

type Complaint struct {
	ID          string          `json:"id"`
	BinID       string          `json:"binId,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Status      ComplaintStatus `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ComplaintPatch is a partial complaint update. Nil fields are left untouched.
type ComplaintPatch struct {
	Status      *ComplaintStatus `json:"status"`
	Description *string          `json:"description"`
}
