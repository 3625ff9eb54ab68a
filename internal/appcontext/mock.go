package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/catalogadmin/internal/session"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/gateway"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	SessionFunc      func() (*session.Session, error)
	GatewayFunc      func() (*gateway.Gateway, error)
	WorkflowFunc     func() (*confirm.Workflow, error)
	PageSizeFunc     func() int
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Session returns a session using the mock function or an empty in-memory session.
func (m *Mock) Session() (*session.Session, error) {
	if m.SessionFunc != nil {
		return m.SessionFunc()
	}
	return session.New(nil), nil
}

// Gateway returns a gateway using the mock function or nil.
func (m *Mock) Gateway() (*gateway.Gateway, error) {
	if m.GatewayFunc != nil {
		return m.GatewayFunc()
	}
	return nil, nil
}

// Workflow returns a workflow using the mock function, or one bound to
// the mock's gateway.
func (m *Mock) Workflow() (*confirm.Workflow, error) {
	if m.WorkflowFunc != nil {
		return m.WorkflowFunc()
	}
	gw, err := m.Gateway()
	if err != nil || gw == nil {
		return nil, err
	}
	return confirm.New(gw), nil
}

// PageSize returns the page size using the mock function or the default.
func (m *Mock) PageSize() int {
	if m.PageSizeFunc != nil {
		return m.PageSizeFunc()
	}
	return constants.DefaultPageSize
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
