package blogclient

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// FaultKind is the uniform classification of a failed request
type FaultKind string

const (
	FaultNetwork      FaultKind = "network"
	FaultBadRequest   FaultKind = "badRequest"
	FaultUnauthorized FaultKind = "unauthorized"
	FaultForbidden    FaultKind = "forbidden"
	FaultNotFound     FaultKind = "notFound"
	FaultConflict     FaultKind = "conflict"
	FaultValidation   FaultKind = "validation"
	FaultServer       FaultKind = "server"
	FaultUnavailable  FaultKind = "unavailable"
	FaultUnknown      FaultKind = "unknown"
)

const (
	TextCodeNetworkError       = "NETWORK_ERROR"
	TextCodeBadRequest         = "BAD_REQUEST"
	TextCodeUnauthorized       = "UNAUTHORIZED"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeNotFound           = "NOT_FOUND"
	TextCodeConflict           = "CONFLICT"
	TextCodeValidationError    = "VALIDATION_ERROR"
	TextCodeServerError        = "SERVER_ERROR"
	TextCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	TextCodeUnknownError       = "UNKNOWN_ERROR"
	TextCodeNoRefreshToken     = "NO_REFRESH_TOKEN"
)

// ErrNoRefreshCredential is returned by Refresh when the session holds no
// refresh token to trade in
var ErrNoRefreshCredential = goerrors.New("no refresh credential available", goerrors.CategoryAuth).
	WithTextCode(TextCodeNoRefreshToken).
	WithCode(goerrors.CodeUnauthorized)

var textCodeToKind = map[string]FaultKind{
	TextCodeNetworkError:       FaultNetwork,
	TextCodeBadRequest:         FaultBadRequest,
	TextCodeUnauthorized:       FaultUnauthorized,
	TextCodeNoRefreshToken:     FaultUnauthorized,
	TextCodeForbidden:          FaultForbidden,
	TextCodeNotFound:           FaultNotFound,
	TextCodeConflict:           FaultConflict,
	TextCodeValidationError:    FaultValidation,
	TextCodeServerError:        FaultServer,
	TextCodeServiceUnavailable: FaultUnavailable,
	TextCodeUnknownError:       FaultUnknown,
}

// KindOf extracts the fault classification from an error produced by this
// package. Errors from elsewhere classify as unknown.
func KindOf(err error) FaultKind {
	if err == nil {
		return ""
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return FaultUnknown
	}

	if kind, ok := textCodeToKind[richErr.TextCode]; ok {
		return kind
	}

	return FaultUnknown
}

// IsUnauthorizedFault checks for the fault kind that triggers session
// invalidation
func IsUnauthorizedFault(err error) bool {
	return KindOf(err) == FaultUnauthorized
}

// ClassifyNetworkError wraps a transport-level failure (DNS, refused
// connection, timeout) into a network fault
func ClassifyNetworkError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "Network error. Please check your connection.").
		WithTextCode(TextCodeNetworkError)
}

// ClassifyStatus maps an HTTP status code and optional backend message into a
// uniform fault. Total over all codes; anything unrecognized lands in the
// unknown bucket. For the statuses where the backend message is actionable
// (400, 404, 409, 422) it overrides the default; authentication, network,
// and server faults keep their fixed wording.
func ClassifyStatus(status int, backendMessage string) *goerrors.Error {
	switch status {
	case 0:
		return goerrors.New("Network error. Please check your connection.", goerrors.CategoryOperation).
			WithTextCode(TextCodeNetworkError)
	case http.StatusBadRequest:
		return goerrors.New(messageOrDefault(backendMessage, "Bad request. Please check your input."), goerrors.CategoryBadInput).
			WithTextCode(TextCodeBadRequest).
			WithCode(goerrors.CodeBadRequest)
	case http.StatusUnauthorized:
		return goerrors.New("Unauthorized. Please log in again.", goerrors.CategoryAuth).
			WithTextCode(TextCodeUnauthorized).
			WithCode(goerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return goerrors.New("Access forbidden. You don't have permission.", goerrors.CategoryAuth).
			WithTextCode(TextCodeForbidden)
	case http.StatusNotFound:
		return goerrors.New(messageOrDefault(backendMessage, "Resource not found."), goerrors.CategoryNotFound).
			WithTextCode(TextCodeNotFound).
			WithCode(goerrors.CodeNotFound)
	case http.StatusConflict:
		return goerrors.New(messageOrDefault(backendMessage, "Conflict. Resource already exists."), goerrors.CategoryConflict).
			WithTextCode(TextCodeConflict).
			WithCode(goerrors.CodeConflict)
	case http.StatusUnprocessableEntity:
		return goerrors.New(messageOrDefault(backendMessage, "Validation error. Please check your input."), goerrors.CategoryValidation).
			WithTextCode(TextCodeValidationError)
	case http.StatusInternalServerError:
		return goerrors.New("Server error. Please try again later.", goerrors.CategoryInternal).
			WithTextCode(TextCodeServerError)
	case http.StatusServiceUnavailable:
		return goerrors.New("Service unavailable. Please try again later.", goerrors.CategoryOperation).
			WithTextCode(TextCodeServiceUnavailable)
	default:
		message := backendMessage
		if message == "" {
			message = fmt.Sprintf("Error %d: %s", status, http.StatusText(status))
		}
		return goerrors.New(message, goerrors.CategoryInternal).
			WithTextCode(TextCodeUnknownError).
			WithMetadata(map[string]any{"status": status})
	}
}

func messageOrDefault(message, def string) string {
	if message != "" {
		return message
	}
	return def
}
