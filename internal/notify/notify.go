// Package notify holds the single transient notice shown to the user.
package notify

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/util"
)

// Severity classifies a notice.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a message that dismisses itself after a fixed duration.
type Notice struct {
	ID        uint64    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the part of Center that engines depend on.
type Notifier interface {
	Push(sev Severity, message string) Notice
}

// Center keeps at most one notice. A new notice replaces the current one
// and restarts the dismiss timer.
type Center struct {
	logger   *zap.Logger
	sched    clock.Scheduler
	duration time.Duration

	mu      sync.Mutex
	seq     uint64
	current *Notice
	timer   clock.Timer
}

// NewCenter creates a Center whose notices live for duration.
func NewCenter(logger *zap.Logger, sched clock.Scheduler, duration time.Duration) *Center {
	return &Center{
		logger:   logger.Named("notify"),
		sched:    sched,
		duration: duration,
	}
}

// Push shows a notice and logs it.
func (c *Center) Push(sev Severity, message string) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.seq++
	n := Notice{ID: c.seq, Severity: sev, Message: message, CreatedAt: c.sched.Now()}
	c.current = &n

	id := n.ID
	c.timer = c.sched.AfterFunc(c.duration, func() { c.expire(id) })

	switch sev {
	case SeverityError:
		c.logger.Error(message, zap.String("severity", string(sev)))
	case SeverityWarning:
		c.logger.Warn(message, zap.String("severity", string(sev)))
	default:
		c.logger.Info(message, zap.String("severity", string(sev)))
	}
	return n
}

// Report pushes err's message with the severity derived from its kind.
// A nil err is ignored.
func (c *Center) Report(err error) {
	if err == nil {
		return
	}
	c.Push(SeverityFor(err), err.Error())
}

func (c *Center) expire(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.ID == id {
		c.current = nil
		c.timer = nil
	}
}

// Current returns the visible notice, if any.
func (c *Center) Current() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notice{}, false
	}
	return *c.current, true
}

// Dismiss hides the current notice and stops its timer.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
}

// SeverityFor maps an error to the severity it is shown with. Rule
// violations the user can correct are warnings; malformed input and
// failing collaborators are errors.
func SeverityFor(err error) Severity {
	switch {
	case err == nil:
		return SeveritySuccess
	case errors.Is(err, util.ErrLimitExceeded),
		errors.Is(err, util.ErrInsufficientBalance),
		errors.Is(err, util.ErrLockNotExpired):
		return SeverityWarning
	default:
		return SeverityError
	}
}
