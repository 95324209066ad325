package models

import "time"

// Settings is the per-tenant configuration document bootstrapped at
// registration. The auth core only creates and reads it; its business fields
// belong to other services.
type Settings struct {
	ID        string
	Tenant    string
	Name      string
	OwnerID   string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
