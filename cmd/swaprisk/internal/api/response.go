package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/marketdata"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/curve"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/utils"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ValidationError describes one rejected input.
type ValidationError struct {
	Code    string         `json:"code,omitempty"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

// DataResponse writes data inside the envelope with the given status.
func DataResponse(c echo.Context, status int, data any) error {
	return c.JSON(status, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, data any) error {
	return DataResponse(c, http.StatusOK, data)
}

type errorClass struct {
	target error
	code   string
	status int
}

var errorClasses = []errorClass{
	{marketdata.ErrInvalidQuotes, "ERR_INVALID_QUOTES", http.StatusBadRequest},
	{marketdata.ErrInvalidShifts, "ERR_INVALID_SHIFTS", http.StatusBadRequest},
	{swap.ErrInvalidDefinition, "ERR_INVALID_DEFINITION", http.StatusBadRequest},
	{curve.ErrInvalidCurve, "ERR_INVALID_CURVE", http.StatusUnprocessableEntity},
	{curve.ErrInsufficientCoverage, "ERR_INSUFFICIENT_COVERAGE", http.StatusUnprocessableEntity},
	{curve.ErrInvalidRange, "ERR_INVALID_RANGE", http.StatusUnprocessableEntity},
	{swap.ErrScheduleDegenerate, "ERR_SCHEDULE_DEGENERATE", http.StatusUnprocessableEntity},
	{swap.ErrNilCurve, "ERR_NIL_CURVE", http.StatusUnprocessableEntity},
	{utils.ErrUnsupportedConvention, "ERR_UNSUPPORTED_CONVENTION", http.StatusUnprocessableEntity},
	{context.Canceled, "ERR_CANCELED", http.StatusServiceUnavailable},
	{context.DeadlineExceeded, "ERR_TIMEOUT", http.StatusServiceUnavailable},
}

// StatusFor maps an operation error onto an HTTP status. Input problems are 400,
// well-formed inputs the engine cannot price are 422.
func StatusFor(err error) int {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	for _, ec := range errorClasses {
		if errors.Is(err, ec.target) {
			return ec.status
		}
	}
	return http.StatusInternalServerError
}

// ErrorResponse writes err in the envelope with its mapped status.
func ErrorResponse(c echo.Context, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		return DataResponse(c, status, "Something went wrong")
	}
	return DataResponse(c, status, validationErrors(err))
}

func validationErrors(err error) []ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]ValidationError, 0, len(verrs))
		for _, e := range verrs {
			out = append(out, ValidationError{
				Code:    "ERR_" + strings.ToUpper(e.Tag()),
				Field:   e.Field(),
				Message: errorMessage(e),
				Params:  errorParams(e),
			})
		}
		return out
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return []ValidationError{{Code: "ERR_BIND", Message: fmt.Sprintf("%v", he.Message)}}
	}

	code := "ERR_UNKNOWN"
	for _, ec := range errorClasses {
		if errors.Is(err, ec.target) {
			code = ec.code
			break
		}
	}
	return []ValidationError{{Code: code, Message: err.Error()}}
}

func errorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in the form %s", field, fe.Param())
	case "min":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func errorParams(fe validator.FieldError) map[string]any {
	params := make(map[string]any)
	switch fe.Tag() {
	case "min", "gte":
		params["min"] = fe.Param()
	case "max", "lte":
		params["max"] = fe.Param()
	case "gt", "lt":
		params["value"] = fe.Param()
	case "oneof":
		params["options"] = strings.Split(fe.Param(), " ")
	case "datetime":
		params["layout"] = fe.Param()
	}
	return params
}
