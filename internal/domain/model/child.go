package model

import "time"

// Child is read-only in this service. It exists so the gateway can check
// that the authenticated parent owns the child a lesson is requested for.
type Child struct {
	ID        string
	ParentID  string
	Name      string
	CreatedAt time.Time
}
