package models

import "time"

// TokenType discriminates the persisted credential-token kinds.
type TokenType string

const (
	TokenTypeRefresh       TokenType = "REFRESH"
	TokenTypeResetPassword TokenType = "RESET_PASSWORD"
	// TokenTypeWorkspaceInvite is reserved for workspace invitations and is
	// not issued by the session manager yet.
	TokenTypeWorkspaceInvite TokenType = "WORKSPACE_INVITE"
)

// TokenRecord is the persisted unit of the token store. Only the hash of the
// raw secret is ever written; a record is consumed by deleting it, there is
// no "used" flag.
type TokenRecord struct {
	ID         string
	UserID     string
	TokenHash  string
	Type       TokenType
	ExpiresAt  time.Time
	UserAgent  string
	IPAddress  string
	IssuedAt   time.Time
	LastUsedAt time.Time
}

// ExpiredAt reports whether the record is past its lifetime at the given
// instant. Expired records are invalid for all purposes even while still
// physically present.
func (r *TokenRecord) ExpiredAt(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// TokenPair bundles a short-lived signed access token with the raw refresh
// secret. It is transient and never persisted; the refresh secret is shown to
// the client exactly once.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds until the access token expires
}

// ClientInfo is optional provenance captured at issuance/rotation. It is
// informational only and never gates an authorization decision.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
