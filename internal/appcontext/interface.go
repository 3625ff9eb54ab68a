// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than the
// concrete App so they can be tested with a Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/catalogadmin/internal/session"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/gateway"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/catalogadmin/app implements it.
type Interface interface {
	// Session returns the authentication session, loading the stored token
	// on first use.
	Session() (*session.Session, error)

	// Gateway returns the catalog gateway, creating it lazily if needed.
	// This is thread-safe and ensures only one instance is created.
	Gateway() (*gateway.Gateway, error)

	// Workflow returns the confirmation workflow bound to the gateway.
	Workflow() (*confirm.Workflow, error)

	// PageSize returns the configured number of rows per page.
	PageSize() int

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
