package proc

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoTracksFound        = errors.New("no tracks found")
	ErrSessionAlreadyExists = errors.New("session already exists for guild")
	ErrNoSession            = errors.New("no active session")
	ErrNotPlaying           = errors.New("nothing is playing")
	ErrSearchTimeout        = errors.New("search timed out")
)

// ProviderError carries a short machine code next to the provider's message.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// AsProviderError classifies err into a ProviderError, keeping an existing one.
func AsProviderError(err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	switch {
	case errors.Is(err, ErrSearchTimeout), errors.Is(err, context.DeadlineExceeded):
		return &ProviderError{Code: "TIMEOUT", Message: "the search provider did not answer in time", Err: err}
	case errors.Is(err, context.Canceled):
		return &ProviderError{Code: "CANCELED", Message: "the request was canceled", Err: err}
	default:
		return &ProviderError{Code: "PROVIDER", Message: err.Error(), Err: err}
	}
}
