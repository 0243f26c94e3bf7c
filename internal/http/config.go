package http

import (
	"github.com/lourensdv/boekrak/internal/database"
	"github.com/lourensdv/boekrak/internal/library"
	"github.com/lourensdv/boekrak/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Library  *library.Service
	Database *database.Database

	// Session management for transient UI state
	SessionManager *SessionManager

	// CSRF protection; disabled when the secret is empty
	CSRFSecret    []byte
	SecureCookies bool

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
