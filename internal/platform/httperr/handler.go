package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// EchoHandler returns a central echo error handler that renders every error
// as {"message": ...} with the status derived from the error kind. Unknown
// errors are logged and rendered as 500 without leaking details.
func EchoHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.StatusCode()
			message = appErr.Message
			if appErr.Kind == KindInternal {
				logger.Error().Err(appErr.Err).
					Str("path", c.Request().URL.Path).
					Msg("internal error")
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		default:
			logger.Error().Err(err).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, map[string]string{"message": message})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
