// Package alerts provides a structured system for status notifications.
package alerts

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentstation/catalogadmin/internal/cmd/emoji"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates a potential issue or important notice.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the appropriate icon for the alert level.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return emoji.Error
	case LevelWarning:
		return emoji.Warning
	case LevelInfo:
		return emoji.Info
	case LevelSuccess:
		return emoji.Success
	default:
		return emoji.Unknown
	}
}

// Color returns the terminal color of the level.
func (l Level) Color() lipgloss.Color {
	switch l {
	case LevelError:
		return lipgloss.Color("1") // Red
	case LevelWarning:
		return lipgloss.Color("3") // Yellow
	case LevelInfo:
		return lipgloss.Color("6") // Cyan
	case LevelSuccess:
		return lipgloss.Color("2") // Green
	default:
		return lipgloss.Color("7")
	}
}

// Style returns the lipgloss style used to render the level.
func (l Level) Style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(l.Color()).Bold(l == LevelError)
}
