package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Embed this struct in other domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // User ID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // User ID
	Version       int64     `json:"version"`       // For optimistic locking
}
