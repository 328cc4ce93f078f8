package http_api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	. "github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"

	cs "github.com/lojascometa/contract-terminal/terminal/api/http_api/context_service"
)

func contextServiceMiddleware(next HandlerFunc) HandlerFunc {
	return func(ctx Context) error {
		return next(cs.New(ctx))
	}
}

func requestIDMiddleware() MiddlewareFunc {
	return echo_middleware.RequestIDWithConfig(echo_middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// Custom error handler
func customHTTPErrorHandler(err error, c Context) {
	csError, ok := err.(*cs.CSErrorResp)
	if !ok {
		if he, ok := err.(*HTTPError); ok {
			csError = &cs.CSErrorResp{
				ErrorMessage: fmt.Sprintf("%s", he.Message),
			}
		} else {
			csError = &cs.CSErrorResp{
				ErrorMessage: http.StatusText(http.StatusInternalServerError),
			}
		}
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(http.StatusInternalServerError)
		} else {
			err = c.JSON(http.StatusInternalServerError, csError)
		}
		_ = err
	}
}
