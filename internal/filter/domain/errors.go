package domain

import (
	"errors"
	"fmt"
)

var ErrMalformedMessage = errors.New("malformed message")

func malformed(reason string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedMessage, reason, err)
	}
	return fmt.Errorf("%w: %s", ErrMalformedMessage, reason)
}
