// Package generation is the boundary to the external generative-language
// service that turns an idea or refinement instruction into draft text.
package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/postflow/core/internal/models"
)

// GenerateRequest carries the creation parameters for a new draft.
type GenerateRequest struct {
	Idea     string
	Platform models.Platform
	Tone     models.Tone
	Length   models.Length
}

// Gateway produces and revises draft content. Implementations must return a
// *Error when the provider is unreachable, rejects the request, or returns
// blank content; callers roll the triggering mutation back on any error.
type Gateway interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Refine(ctx context.Context, currentContent, instruction string) (string, error)
}

// Error wraps a provider failure with a message fit for the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// IsError reports whether err is a generation failure.
func IsError(err error) bool {
	var ge *Error
	return errors.As(err, &ge)
}

// UserMessage extracts the user-facing message from a generation failure,
// falling back to err.Error() for anything else.
func UserMessage(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	return err.Error()
}
