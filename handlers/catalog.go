package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/services"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	queryHelper "github.com/sahilchouksey/curriculum-catalog/utils/query"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

// ErrInvalidBody marks a request body that could not be decoded at all.
var ErrInvalidBody = errors.New("invalid request body")

// ParseID reads the :id route parameter. ok is false when it is not a positive integer.
func ParseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// DecodeBody parses the JSON request body into out. A value of the wrong JSON
// type is reported against its field.
func DecodeBody(c *fiber.Ctx, out interface{}) error {
	err := c.BodyParser(out)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return services.NewValidationError(typeErr.Field, "Incorrect type. Expected "+jsonTypeName(typeErr.Type)+".")
	}
	return fmt.Errorf("%w: %v", ErrInvalidBody, err)
}

// jsonTypeName names the JSON type a Go destination accepts.
func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// ListOptions reads search and ordering from the query string.
func ListOptions(q *queryHelper.Params) services.ListOptions {
	return services.ListOptions{
		Search:   q.Search(),
		Ordering: q.Ordering(),
	}
}

// QueryError writes the response for malformed filter parameters, if any.
// It reports whether a response was written.
func QueryError(c *fiber.Ctx, q *queryHelper.Params) (bool, error) {
	if fields := q.Errors(); len(fields) > 0 {
		return true, response.ValidationError(c, fields)
	}
	return false, nil
}

// RespondError maps an error from a catalog service or DecodeBody to a response.
func RespondError(c *fiber.Ctx, log *logger.Logger, err error, action string) error {
	if errors.Is(err, services.ErrNotFound) {
		return response.NotFound(c)
	}
	if ve, ok := services.AsValidationError(err); ok {
		return response.ValidationError(c, ve.Fields)
	}

	if errors.Is(err, ErrInvalidBody) {
		return response.BadRequest(c, "Invalid request body")
	}

	log.Error("catalog request failed",
		"action", action,
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return response.InternalServerError(c, "Failed to "+action)
}
