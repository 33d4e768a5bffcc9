package search

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a search failure.
type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindRateLimit     Kind = "rate_limit_exceeded"
	KindUpstreamParse Kind = "upstream_parse_error"
	KindUpstreamCall  Kind = "upstream_call_error"
)

// Sentinels for errors.Is against an *Error.
var (
	ErrValidation    = errors.New("validation error")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrUpstreamParse = errors.New("upstream parse error")
	ErrUpstreamCall  = errors.New("upstream call error")
)

// CredentialsHint is attached to upstream failures.
const CredentialsHint = "Verifique sua chave GOOGLE_API_KEY no arquivo .env"

// Error is returned by Service.Search for every expected failure. Message is
// safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrRateLimited:
		return e.Kind == KindRateLimit
	case ErrUpstreamParse:
		return e.Kind == KindUpstreamParse
	case ErrUpstreamCall:
		return e.Kind == KindUpstreamCall
	}
	return false
}

// HTTPStatusCode maps the kind to a response status.
func (e *Error) HTTPStatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindUpstreamParse, KindUpstreamCall:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func rateLimitError(limit int) *Error {
	return &Error{
		Kind:    KindRateLimit,
		Message: fmt.Sprintf("Limite de requisições excedido. Máximo %d buscas por minuto. Aguarde um momento.", limit),
	}
}

func upstreamError(kind Kind, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: "Erro ao buscar peças: " + err.Error(),
		Hint:    CredentialsHint,
		Err:     err,
	}
}
