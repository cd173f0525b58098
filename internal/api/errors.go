package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"market-sentiment/internal/logger"
	"market-sentiment/internal/market"
	"market-sentiment/internal/sentiment"
)

const (
	CodeInvalidJSON      = "INVALID_JSON"
	CodeValidation       = "VALIDATION_FAILED"
	CodeUnknownSymbol    = "UNKNOWN_SYMBOL"
	CodeInvalidQuote     = "INVALID_QUOTE"
	CodeNoHistory        = "NO_HISTORY"
	CodeProvider         = "PROVIDER_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// apiError carries a status and code chosen by a handler.
type apiError struct {
	status  int
	code    string
	msg     string
	details []FieldError
}

func (e *apiError) Error() string { return e.msg }

func badRequest(code, format string, args ...any) error {
	return &apiError{status: http.StatusBadRequest, code: code, msg: fmt.Sprintf(format, args...)}
}

func notFound(code, format string, args ...any) error {
	return &apiError{status: http.StatusNotFound, code: code, msg: fmt.Sprintf(format, args...)}
}

// validationError flattens validator output using the json field names.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest(CodeValidation, "%s", err.Error())
	}
	details := make([]FieldError, 0, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{Field: fe.Field(), Message: describe(fe)})
		fields = append(fields, fe.Field())
	}
	return &apiError{
		status:  http.StatusBadRequest,
		code:    CodeValidation,
		msg:     "invalid " + strings.Join(fields, ", "),
		details: details,
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// statusFor maps domain errors onto HTTP statuses. Anything unrecognised
// came from an upstream provider.
func statusFor(err error) (int, string) {
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		return ae.status, ae.code
	case errors.Is(err, market.ErrUnknownSymbol):
		return http.StatusNotFound, CodeUnknownSymbol
	case errors.Is(err, sentiment.ErrInvalidQuote):
		return http.StatusUnprocessableEntity, CodeInvalidQuote
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	default:
		return http.StatusBadGateway, CodeProvider
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	fields := []any{
		"status", status,
		"code", code,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorWithErr(r.Context(), "Request failed", err, fields...)
	} else {
		logger.Info(r.Context(), "Request rejected", append(fields, "error", err.Error())...)
	}

	body := ErrorResponse{Error: err.Error(), Code: code}
	var ae *apiError
	if errors.As(err, &ae) {
		body.Details = ae.details
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}
