package model

import "time"

// Quote is a point-in-time price for a security as returned by an
// external provider. Name is optional; providers that include it allow
// the stored position name to be kept in sync.
type Quote struct {
	Code  string
	Price float64
	Name  string
}

// CachedPrice is one row of the durable price cache. Rows are overwritten
// on every successful fetch and never expire; staleness is bounded only by
// refresh frequency.
type CachedPrice struct {
	Code      string
	Price     float64
	UpdatedAt time.Time
}

// ProviderConfig holds optional quote-provider credentials. The token is
// stored fernet-encrypted at rest and decrypted on read.
type ProviderConfig struct {
	ID        string
	Token     string
	UpdatedAt time.Time
}
