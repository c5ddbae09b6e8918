package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and HTTP mapping. Every error produced
// by the generation pipeline carries exactly one Kind.
type Kind string

const (
	KindUnauthorized        Kind = "unauthorized"
	KindMissingPrecondition Kind = "missing_precondition"
	KindNotFound            Kind = "not_found"
	KindDocumentNotFound    Kind = "document_not_found"
	KindNoChunksGenerated   Kind = "no_chunks_generated"
	KindEmbeddingFailed     Kind = "embedding_failed"
	KindGenerationFailed    Kind = "generation_failed"
	KindInvalidQuestionData Kind = "invalid_question_data"
	KindSynthesisFailed     Kind = "synthesis_failed"
	KindDatabaseError       Kind = "database_error"
)

type Error struct {
	Kind    Kind
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

// New creates an error of the given kind with a human-readable message.
// Messages are shown to the operator as-is, so keep them descriptive.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the underlying cause for diagnostics while tagging the kind.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Wrapf(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code controllers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusForbidden
	case KindMissingPrecondition, KindNoChunksGenerated:
		return http.StatusBadRequest
	case KindNotFound, KindDocumentNotFound:
		return http.StatusNotFound
	case KindEmbeddingFailed, KindGenerationFailed, KindSynthesisFailed:
		return http.StatusBadGateway
	case KindInvalidQuestionData:
		return http.StatusUnprocessableEntity
	case KindDatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
