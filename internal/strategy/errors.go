package strategy

import (
	"errors"
	"net/http"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

var (
	// ErrEmptyTopic is returned when the topic is blank after trimming.
	ErrEmptyTopic = errors.New("topic is empty")
	// ErrMissingAPIKey is returned by a generator built without credentials.
	ErrMissingAPIKey = errors.New("api key is missing")
)

// GenerationError wraps any failure of the underlying service call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generate strategy: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether the failure was caused by missing or rejected
// credentials.
func (e *GenerationError) IsAuth() bool {
	if errors.Is(e.Err, ErrMissingAPIKey) {
		return true
	}

	var genaiErr genai.APIError
	if errors.As(e.Err, &genaiErr) {
		return isAuthStatus(genaiErr.Code)
	}

	var openaiErr *openai.Error
	if errors.As(e.Err, &openaiErr) {
		return isAuthStatus(openaiErr.StatusCode)
	}

	return false
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
