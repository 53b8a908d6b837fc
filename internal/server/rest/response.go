package rest

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Error codes carried in the error envelope.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeInvalidRefreshToken     = "INVALID_REFRESH_TOKEN"
	CodeMissingToken            = "MISSING_TOKEN"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeInsufficientRole        = "INSUFFICIENT_ROLE"
	CodeNotFound                = "NOT_FOUND"
	CodeRateLimitExceeded       = "RATE_LIMIT_EXCEEDED"
	CodeLoginError              = "LOGIN_ERROR"
	CodeRefreshError            = "REFRESH_ERROR"
	CodeLogoutError             = "LOGOUT_ERROR"
	CodeInternal                = "INTERNAL_SERVER_ERROR"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail describes one failed validation rule.
type FieldDetail struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{Error: &APIError{Code: code, Message: message}})
}

func abortValidation(c *gin.Context, err error) {
	apiErr := &APIError{Code: CodeValidation, Message: "Invalid request data"}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			apiErr.Details = append(apiErr.Details, FieldDetail{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: fieldMessage(fe),
			})
		}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Error: apiErr})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	default:
		return fe.Field() + " is invalid"
	}
}

var tagNameOnce sync.Once

// useJSONFieldNames makes validation errors report JSON field names.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}
