// Package constants provides shared constants used throughout the catalogadmin codebase.
// This includes timeouts, limits, file permissions, and backend defaults
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the catalog backend
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout is how long graceful shutdown may take before giving up
	ShutdownTimeout = 5 * time.Second

	// DefaultSessionTTL is how long a stored session token is kept by backends that expire keys
	DefaultSessionTTL = 8 * time.Hour

	// AlertDisplayDuration is how long the terminal table shows a toast before clearing it
	AlertDisplayDuration = 4 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like session tokens (rw-------)
	SecureFilePermissions = 0600

	// SecureDirPermissions is for directories holding sensitive files (rwx------)
	SecureDirPermissions = 0700
)

// Limit constants define catalog field limits and paging defaults
const (
	// MaxNameLength is the maximum number of characters in a product name
	MaxNameLength = 55

	// MaxCategoryLength is the maximum number of characters in a category
	MaxCategoryLength = 30

	// MaxImageSize is the largest image file accepted for upload (5 MiB)
	MaxImageSize = 5 << 20

	// DefaultPageSize is the default number of rows per page in the product table
	DefaultPageSize = 10

	// MaxPageSize is the largest page size accepted from flags or config
	MaxPageSize = 500

	// PaginationRadius is how many pages around the current one the page strip shows
	PaginationRadius = 2
)

// Backend defaults
const (
	// DefaultAPIURL is the base URL of the catalog backend
	DefaultAPIURL = "http://localhost:5000"

	// ProductsPath is the collection path for products
	ProductsPath = "/api/products"

	// LoginPath is the path that exchanges credentials for a session token
	LoginPath = "/api/auth/login"

	// SessionTokenKey is the fixed key under which the session token is stored
	SessionTokenKey = "token"

	// DefaultAuditSubject is the NATS subject confirmed catalog actions are published to
	DefaultAuditSubject = "catalog.actions"
)

// Path constants
const (
	// AppName is used for config file names, env prefixes and cache directories
	AppName = "catalogadmin"

	// SessionFileName is the file the file-backed session store writes
	SessionFileName = "session.yaml"
)
