package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salesdesk/sales-management/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// StatusOf maps a domain error kind to its HTTP status code.
func StatusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindMissingCredential, domain.KindInvalidCredential, domain.KindExpiredCredential:
		return http.StatusUnauthorized
	case domain.KindInsufficientRole:
		return http.StatusForbidden
	case domain.KindNotFound, domain.KindNoRouteMatch:
		return http.StatusNotFound
	case domain.KindInvalidPayload:
		return http.StatusBadRequest
	case domain.KindDuplicateKey:
		return http.StatusConflict
	case domain.KindDownstreamUnavailable:
		return http.StatusBadGateway
	case domain.KindDownstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Domain errors win over any echo error they wrap.
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindInternal {
		code := StatusOf(de.Kind)
		if code >= http.StatusInternalServerError {
			log.Warn().
				Err(err).
				Str("kind", de.Kind.String()).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("downstream failure")
		}
		return code, de.Message
	}

	// Echo's own errors (404 and 405 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal Server Error"
}
