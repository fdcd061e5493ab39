// Package validate declares the form payload schemas and checks inbound
// payloads against them before any field is trusted. A failed check is a
// hard 400 with every violation aggregated into one message, not a
// recoverable redirect: malformed input means a broken client.
package validate

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/shakti20/Camper/internal/httperr"
)

var check = validator.New(validator.WithRequiredStructEnabled())

// ListingForm is the payload for listing create and update. Price is a
// pointer so that presence and value are checked separately: zero is a
// legal price, a missing field is not.
type ListingForm struct {
	Title       string   `form:"title" validate:"required"`
	Location    string   `form:"location" validate:"required"`
	Description string   `form:"description" validate:"required"`
	Price       *float64 `form:"price" validate:"required,gte=0"`
}

// ReviewForm is the payload for review create.
type ReviewForm struct {
	Body   string `form:"body" validate:"required"`
	Rating int    `form:"rating" validate:"required,min=1,max=5"`
}

// RegisterForm is the payload for user registration.
type RegisterForm struct {
	Username string `form:"username" validate:"required,min=3"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// LoginForm is the payload for login.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Bind decodes the request payload into dst and validates it. On failure
// it returns a bad-request error carrying all violations.
func Bind(c *gin.Context, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		return httperr.BadRequest("Invalid form data")
	}
	return Struct(dst)
}

// Struct validates an already-decoded payload against its schema.
func Struct(payload any) error {
	err := check.Struct(payload)
	if err == nil {
		return nil
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return httperr.BadRequest("Invalid form data")
	}
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, message(v))
	}
	return httperr.BadRequest(strings.Join(msgs, ", "))
}

func message(v validator.FieldError) string {
	field := strings.ToLower(v.Field())
	switch v.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if v.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, v.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, v.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, v.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, v.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
