package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"college_erp_echo/internal/apperr"
)

// CustomErrorHandler creates a custom error handler for Echo. Domain errors
// map onto stable HTTP statuses so handlers can return service errors
// unchanged and clients get a uniform JSON error envelope.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var (
		validationErr  *apperr.ValidationError
		notFoundErr    *apperr.NotFoundError
		alreadyPaidErr *apperr.AlreadyPaidError
		duplicateErr   *apperr.DuplicateError
		invalidExamErr *apperr.InvalidExamError
		httpErr        *echo.HTTPError
	)

	switch {
	case errors.As(err, &validationErr):
		code = http.StatusBadRequest
		message = validationErr.Error()
	case errors.As(err, &invalidExamErr):
		code = http.StatusBadRequest
		message = invalidExamErr.Error()
	case errors.As(err, &notFoundErr):
		code = http.StatusNotFound
		message = notFoundErr.Error()
	case errors.As(err, &alreadyPaidErr):
		code = http.StatusConflict
		message = alreadyPaidErr.Error()
	case errors.As(err, &duplicateErr):
		code = http.StatusConflict
		message = duplicateErr.Error()
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	resp := map[string]interface{}{"error": message}
	if validationErr != nil && validationErr.Field != "" {
		resp["field"] = validationErr.Field
	}

	if err := c.JSON(code, resp); err != nil {
		c.Logger().Error(err)
	}
}
