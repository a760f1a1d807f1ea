// Package db resolves configured databases into connection URLs.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/willibrandon/sqlide/internal/config"
	"github.com/willibrandon/sqlide/internal/dburl"
	"github.com/willibrandon/sqlide/internal/logger"
)

var (
	// ErrAmbiguous is returned when no database is named and the service
	// does not hold exactly one.
	ErrAmbiguous = errors.New("missing --db option")
	// ErrUnknownDatabase is returned for a database name with no section.
	ErrUnknownDatabase = errors.New("unknown database")
)

// Engine is a resolved database: its section name and connection URL.
type Engine struct {
	Name string
	URL  *dburl.URL
}

// Service holds the configured databases.
type Service struct {
	databases []config.DatabaseConfig

	// passwordCommand runs a password_command; replaced in tests.
	passwordCommand func(ctx context.Context, command string) (string, error)
}

// NewService creates a service over the configured databases.
func NewService(cfg *config.Config) *Service {
	return &Service{
		databases:       cfg.Databases,
		passwordCommand: ExecutePasswordCommand,
	}
}

// Names returns the configured database names in resolution order.
func (s *Service) Names() []string {
	names := make([]string, len(s.databases))
	for i, db := range s.databases {
		names[i] = db.Name
	}
	return names
}

// Resolve returns the section for name. An empty name selects the only
// configured database. Names are matched case-insensitively since section
// names are case-folded when the configuration is loaded.
func (s *Service) Resolve(name string) (config.DatabaseConfig, error) {
	if name == "" {
		if len(s.databases) == 1 {
			return s.databases[0], nil
		}
		return config.DatabaseConfig{}, ErrAmbiguous
	}

	for _, db := range s.databases {
		if strings.EqualFold(db.Name, name) {
			return db, nil
		}
	}

	known := "none configured"
	if len(s.databases) > 0 {
		known = "known: " + strings.Join(s.Names(), ", ")
	}
	return config.DatabaseConfig{}, fmt.Errorf("%w %q (%s)", ErrUnknownDatabase, name, known)
}

// Engine parses the section URL. A URL without password takes it from the
// section's password_command, if any.
func (s *Service) Engine(ctx context.Context, section config.DatabaseConfig) (*Engine, error) {
	u, err := dburl.Parse(section.URI)
	if err != nil {
		return nil, fmt.Errorf("database %s: %w", section.Name, err)
	}

	if !u.HasPassword && section.PasswordCommand != "" {
		logger.Debug("Running password command", "database", section.Name)
		password, err := s.passwordCommand(ctx, section.PasswordCommand)
		if err != nil {
			return nil, fmt.Errorf("database %s: password command failed: %w", section.Name, err)
		}
		u.Password = password
		u.HasPassword = true
	}

	logger.Debug("Resolved database",
		"database", section.Name,
		"drivername", u.Drivername,
		"url", u.Redacted(),
	)
	return &Engine{Name: section.Name, URL: u}, nil
}
