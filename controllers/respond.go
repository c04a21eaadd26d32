package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-storefront/services"
	"go-storefront/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// The returned message is suitable for a 400 response.
func decodeAndValidate(r *http.Request, dst interface{}, prepare ...func()) (string, bool) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return "Invalid input", false
	}
	for _, fn := range prepare {
		fn()
	}
	if err := validate.Struct(dst); err != nil {
		return validationMessage(err), false
	}
	return "", true
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid input"
	}
	fe := errs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "gte":
		return field + " must be at least " + fe.Param()
	case "min":
		return field + " must contain at least " + fe.Param() + " item(s)"
	default:
		return field + " is invalid"
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps service errors onto response codes. Unexpected
// errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, services.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, capitalize(err.Error()))
	case errors.Is(err, services.ErrConflict):
		writeMessage(w, http.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, utils.ErrMissingSecret):
		log.Error("session secret not configured")
		writeMessage(w, http.StatusInternalServerError, "Server configuration error")
	default:
		log.Error("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// clearStaleSession drops the cookie of a session whose user no longer
// resolves.
func clearStaleSession(w http.ResponseWriter, cookie utils.SessionCookie, err error) {
	if errors.Is(err, services.ErrUnauthenticated) {
		cookie.Clear(w)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
