package handlers

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/department-app/internal/validation"
	apperrors "github.com/spec-kit/department-app/pkg/util"
)

// formValues exposes an url-encoded or multipart body for any method, PUT
// included, and distinguishes absent keys from empty values.
type formValues struct {
	args      *fasthttp.Args
	multipart *multipart.Form
}

func readForm(c *fiber.Ctx) (*formValues, error) {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperrors.NewValidationError("invalid multipart body", nil)
		}
		return &formValues{multipart: form}, nil
	}

	args := &fasthttp.Args{}
	args.ParseBytes(c.Body())
	return &formValues{args: args}, nil
}

// Lookup returns the first value for key and whether the key was sent.
func (f *formValues) Lookup(key string) (string, bool) {
	if f.multipart != nil {
		values, ok := f.multipart.Value[key]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}
	if !f.args.Has(key) {
		return "", false
	}
	return string(f.args.Peek(key)), true
}

// Require returns the value for a mandatory key.
func (f *formValues) Require(key string) (string, error) {
	value, ok := f.Lookup(key)
	if !ok {
		return "", invalid(validation.Missing(key))
	}
	return value, nil
}

// queryValue reads a query parameter, reporting whether it was present at all.
func queryValue(c *fiber.Ctx, key string) (string, bool) {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		return "", false
	}
	return string(args.Peek(key)), true
}

// pathID parses the :id route parameter.
func pathID(c *fiber.Ctx, v *validation.Validator, field string) (uuid.UUID, error) {
	id, err := v.Identifier(field, c.Params("id"))
	if err != nil {
		return uuid.Nil, invalid(err)
	}
	return id, nil
}

// invalid turns a validation failure into a 400 domain error.
func invalid(err error) error {
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		return apperrors.NewValidationError(fieldErr.Error(), map[string]any{"field": fieldErr.Field})
	}
	return err
}
