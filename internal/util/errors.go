package util

import (
	"errors"
	"fmt"
	"time"
)

// Domain error kinds. Every one of them is recoverable by the caller.
var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrLimitExceeded        = errors.New("trading limit exceeded")
	ErrLockNotExpired       = errors.New("lock period not expired")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")

	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input provided")
	ErrNoActiveDraft   = errors.New("no trade awaiting confirmation")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrDuplicateEntry  = errors.New("duplicate entry")
)

// LockNotExpiredError reports how long a staking position stays locked.
type LockNotExpiredError struct {
	PositionID string
	Remaining  time.Duration
}

func (e *LockNotExpiredError) Error() string {
	return fmt.Sprintf("%s: %dh remaining", ErrLockNotExpired, RemainingHours(e.Remaining))
}

func (e *LockNotExpiredError) Unwrap() error {
	return ErrLockNotExpired
}

// RemainingHours rounds d up to whole hours.
func RemainingHours(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	h := int64(d / time.Hour)
	if d%time.Hour != 0 {
		h++
	}
	return h
}
