package alerts

import (
	"fmt"
	"io"
	"time"

	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// Alert represents a status notification shown after an action.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp time.Time
	Err       error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// FromError turns an error into the alert an operator should see.
// Validation failures list one detail per field, and a rejected session
// tells the operator to log in again.
func FromError(err error) *Alert {
	var violations products.Violations
	switch {
	case err == nil:
		return nil
	case errors.As(err, &violations):
		a := NewError("Please fix the highlighted fields")
		for _, v := range violations {
			a.Details = append(a.Details, v.Message)
		}
		return a
	case errors.Is(err, confirm.ErrActionPending):
		return NewWarning("Another change is waiting for confirmation")
	case errors.IsUnauthorized(err):
		return NewError("Session expired or invalid").WithDetails("Log in again with: catalogadmin login")
	case errors.IsUnavailable(err):
		return NewError("Catalog backend unavailable").WithError(err)
	case errors.IsCanceled(err):
		return NewWarning("Canceled")
	default:
		return NewError("Request failed").WithError(err)
	}
}

// ForOutcome returns the toast shown after a confirmed action.
func ForOutcome(kind confirm.Kind, entry products.Entry, err error) *Alert {
	if err != nil {
		a := FromError(err)
		a.Message = fmt.Sprintf("Could not %s product: %s", kind, a.Message)
		return a
	}
	switch kind {
	case confirm.KindAdd:
		return NewSuccess(fmt.Sprintf("Added %q", entry.Name))
	case confirm.KindEdit:
		return NewSuccess(fmt.Sprintf("Saved changes to %q", entry.Name))
	case confirm.KindDelete:
		return NewSuccess(fmt.Sprintf("Deleted %q", entry.Name))
	}
	return NewInfo("Done")
}

// Writer handles alert output to different formats and destinations.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// MultiWriter creates a writer that writes to multiple writers.
func MultiWriter(writers ...Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		for _, w := range writers {
			if err := w.WriteAlert(alert); err != nil {
				return err
			}
		}
		return nil
	})
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// NewWriterTo creates a Writer that writes to an io.Writer.
func NewWriterTo(w io.Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		_, err := fmt.Fprintln(w, alert.String())
		return err
	})
}
