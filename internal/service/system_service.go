package service

import (
	"database/sql"

	"github.com/steven6143/stock-profit-calculator/internal/database"
	"github.com/steven6143/stock-profit-calculator/internal/version"
)

// SystemService exposes health and version information.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService over the given database.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// Health reports whether the database connection is alive.
func (s *SystemService) Health() error {
	return database.HealthCheck(s.db)
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// Version returns build metadata.
func (s *SystemService) Version() VersionInfo {
	return VersionInfo{
		Version: version.Version,
		Commit:  version.Commit,
	}
}
