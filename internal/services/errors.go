package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidSuggestion = errors.New("invalid suggestion")
	ErrDuplicate         = errors.New("duplicate suggestion")
	ErrAlreadyDone       = errors.New("suggestion already implemented")
	ErrCooldown          = errors.New("suggestion cooldown active")
)

// CooldownError carries how long the client still has to wait.
type CooldownError struct {
	Wait time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrCooldown, e.Wait.Round(time.Second))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}
