package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	er "github.com/mcorbin/corbierror"
)

func writeError(logger *slog.Logger, c echo.Context, status int, messages ...string) {
	err := c.JSON(status, er.Error{
		Messages: messages,
	})
	if err != nil {
		logger.Error(err.Error())
		c.Response().Status = http.StatusInternalServerError
	}
}

func errorHandler(logger *slog.Logger) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		// can happen of ctx.Error() is called in a middleware
		// with nil passed
		if err == nil {
			return
		}
		if c.Response().Committed {
			return
		}
		errLoggedMsg := err.Error() + " on " + c.Request().Method + " " + c.Request().URL.Path
		corbiError, ok := err.(*er.Error)
		if ok {
			if corbiError.Type == er.Forbidden || corbiError.Type == er.NotFound {
				logger.Warn(errLoggedMsg)
			} else {
				logger.Error(errLoggedMsg)
			}
			finalErr, status := er.HTTPError(*corbiError)
			err := c.JSON(status, finalErr)
			if err != nil {
				logger.Error(err.Error())
				c.Response().Status = http.StatusInternalServerError
			}
			return
		}
		logger.Error(errLoggedMsg)
		echoError, ok := err.(*echo.HTTPError)
		if ok {
			if jsonError, ok := echoError.Internal.(*json.UnmarshalTypeError); ok {
				writeError(logger, c, http.StatusBadRequest, fmt.Sprintf("invalid JSON payload, field %s is incorrect", jsonError.Field))
				return
			}
			switch {
			case echoError.Code == http.StatusBadRequest && strings.Contains(echoError.Error(), "Field validation"):
				writeError(logger, c, http.StatusBadRequest, strings.Split(fmt.Sprintf("%+v", echoError.Message), "\n")...)
				return
			case echoError.Code == http.StatusBadRequest:
				writeError(logger, c, http.StatusBadRequest, fmt.Sprintf("%v", echoError.Message))
				return
			case echoError.Code == http.StatusUnauthorized:
				writeError(logger, c, http.StatusUnauthorized, "unauthorized")
				return
			case echoError.Code == http.StatusMethodNotAllowed:
				writeError(logger, c, http.StatusMethodNotAllowed, "method not allowed")
				return
			case echoError.Code == http.StatusNotFound:
				writeError(logger, c, http.StatusNotFound, "not found")
				return
			}
		}
		// validation errors returned by the services
		if strings.Contains(err.Error(), "Field validation") {
			writeError(logger, c, http.StatusBadRequest, strings.Split(err.Error(), "\n")...)
			return
		}
		writeError(logger, c, http.StatusInternalServerError, "internal server error")
	}
}
