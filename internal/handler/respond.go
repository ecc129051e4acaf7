package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "rosterup/internal/errors"
)

// respondError writes the uniform error body for any service error.
func respondError(c echo.Context, err error) error {
	status, body := apperrors.MapToResponse(err)
	return c.JSON(status, body)
}

// bindAndValidate decodes the request body and runs declarative validation.
// Field errors are collected into one ValidationError so the response lists
// every invalid field.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &apperrors.ValidationError{Details: []string{"request body is malformed"}}
	}
	if err := c.Validate(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			details := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, fieldDetail(fe))
			}
			return &apperrors.ValidationError{Details: details}
		}
		return &apperrors.ValidationError{Details: []string{err.Error()}}
	}
	return nil
}

// fieldDetail renders one human-readable line for a failed field constraint.
func fieldDetail(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: field is required", field)
	case "min":
		return fmt.Sprintf("%s: must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s: must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s: must be a valid email address", field)
	case "subdomain":
		return fmt.Sprintf("%s: must consist of lowercase letters, numbers, and hyphens, and must start and end with a letter or number", field)
	case "dive":
		return fmt.Sprintf("%s: contains an invalid element", field)
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}

// pageRequest reads page, size, and sort query parameters. Page is
// zero-based; size defaults to 20.
func pageRequest(c echo.Context) (page, size int, sort string) {
	page = intQueryParam(c, "page", 0)
	size = intQueryParam(c, "size", 0)
	sort = c.QueryParam("sort")
	return page, size, sort
}

func intQueryParam(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	var parsed int
	if _, err := fmt.Sscanf(v, "%d", &parsed); err != nil {
		return def
	}
	return parsed
}

// locationHeader sets the Location header for a newly created resource.
func locationHeader(c echo.Context, id uint) {
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%d", c.Request().URL.Path, id))
}
