package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// ClassificationErrorMessage describes intent classification failures.
	ClassificationErrorMessage = "intent classification unavailable"
	// ExtractionErrorMessage describes topic extraction failures.
	ExtractionErrorMessage = "topic extraction unavailable"
	// SearchErrorMessage describes search index failures.
	SearchErrorMessage = "search service unavailable"
	// SigningErrorMessage describes link signing failures.
	SigningErrorMessage = "link signing failed"
	// GenerationErrorMessage describes reply generation failures.
	GenerationErrorMessage = "reply generation unavailable"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}

// WrapClassification marks a failed intent classification call. Callers
// recover locally by defaulting to the chat branch.
func WrapClassification(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, ClassificationErrorMessage)
}

// WrapExtraction marks a failed topic extraction call. Callers recover
// locally with a sentinel topic.
func WrapExtraction(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, ExtractionErrorMessage)
}

// WrapSearch marks a failed search index call. Callers recover locally with
// an empty hit list.
func WrapSearch(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, SearchErrorMessage)
}

// WrapSigning marks a failed link signing call. Callers omit the link for
// the affected entry only.
func WrapSigning(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, SigningErrorMessage)
}

// WrapGeneration marks a failed reply generation call. Callers recover with
// a fixed apologetic message.
func WrapGeneration(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, GenerationErrorMessage)
}
