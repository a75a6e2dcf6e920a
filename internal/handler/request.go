package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestError is a malformed request body.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &requestError{msg: "invalid JSON body"}
	}
	return h.validate.Struct(dst)
}

func formatValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "invalid request"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type updateQuantityRequest struct {
	// Zero and negative quantities remove the item.
	Quantity *int `json:"quantity" validate:"required"`
}

type chatMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}
