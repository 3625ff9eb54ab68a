package confirm

import (
	"context"
	"sync"
	"time"

	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/logging"
	"github.com/agentstation/catalogadmin/pkg/products"
)

var (
	// ErrActionPending is returned when an action is staged while another
	// one still waits for confirmation.
	ErrActionPending = errors.New("another action is waiting for confirmation")

	// ErrNothingStaged is returned by Confirm when no action is staged.
	ErrNothingStaged = errors.New("no action is waiting for confirmation")
)

// State is the position of the workflow.
type State int

const (
	// Idle means no action is staged.
	Idle State = iota
	// Staged means an action waits for Confirm or Cancel.
	Staged
	// Applying means a confirmed action is being sent.
	Applying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Staged:
		return "staged"
	case Applying:
		return "applying"
	default:
		return "idle"
	}
}

// Outcome is the result of a confirmed action.
type Outcome struct {
	Action Action
	Entry  products.Entry
	Err    error
	At     time.Time
}

// Recorder receives every confirmed outcome, successful or not.
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
}

// Workflow is the confirmation state machine. It is safe for concurrent use.
type Workflow struct {
	mu       sync.Mutex
	applier  Applier
	recorder Recorder
	state    State
	staged   Action
	now      func() time.Time
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithRecorder sends confirmed outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(w *Workflow) {
		w.recorder = r
	}
}

// WithClock sets the clock used to stamp outcomes.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

// New returns an idle workflow applying confirmed actions to applier.
func New(applier Applier, opts ...Option) *Workflow {
	w := &Workflow{applier: applier, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Staged returns the action waiting for confirmation.
func (w *Workflow) Staged() (Action, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.staged, w.staged != nil
}

// Stage captures a for confirmation. The action is kept as given and is not
// validated again. Staging while another action is pending fails with
// ErrActionPending and keeps the pending one.
func (w *Workflow) Stage(a Action) error {
	if a == nil {
		return errors.NewValidationError("action", nil, "action is required")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Idle {
		return ErrActionPending
	}
	w.staged = a
	w.state = Staged
	return nil
}

// Cancel discards the staged action without contacting the backend. It
// reports whether there was anything to discard.
func (w *Workflow) Cancel() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Staged {
		return false
	}
	w.staged.release()
	w.staged = nil
	w.state = Idle
	return true
}

// Confirm sends the staged action to the applier. The workflow returns to
// Idle whatever the outcome, and the applier's error is returned as is.
func (w *Workflow) Confirm(ctx context.Context) (products.Entry, error) {
	w.mu.Lock()
	if w.state != Staged {
		w.mu.Unlock()
		return products.Entry{}, ErrNothingStaged
	}
	a := w.staged
	w.state = Applying
	w.mu.Unlock()

	ctx = logging.WithOperation(ctx, "confirm_"+string(a.Kind()))
	entry, err := a.apply(ctx, w.applier)
	a.release()

	w.mu.Lock()
	w.staged = nil
	w.state = Idle
	w.mu.Unlock()

	logger := logging.FromContext(ctx)
	if err != nil {
		logger.Error().Err(err).Int("product_id", a.Target()).Msg("Confirmed action failed")
	} else {
		logger.Info().Int("product_id", entry.ID).Msg("Confirmed action applied")
	}

	if w.recorder != nil {
		outcome := Outcome{Action: a, Entry: entry, Err: err, At: w.now()}
		if rerr := w.recorder.Record(ctx, outcome); rerr != nil {
			logger.Warn().Err(rerr).Msg("Failed to record confirmed action")
		}
	}
	return entry, err
}
