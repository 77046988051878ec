package models

import "time"

// User is the owning principal of sessions and reset tokens. The wider
// task-tracking domain (workspaces, projects, tasks) lives outside this
// subsystem; only the credential side of the account is modelled here.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
