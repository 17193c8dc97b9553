package server

import (
	"errors"
	"net/http"

	authdomain "github.com/finbooks/salesdesk/internal/auth/domain"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	costsheetdomain "github.com/finbooks/salesdesk/internal/costsheet/domain"
	invoicedomain "github.com/finbooks/salesdesk/internal/invoice/domain"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	receiptdomain "github.com/finbooks/salesdesk/internal/receipt/domain"
	recondomain "github.com/finbooks/salesdesk/internal/reconciliation/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Detail  interface{}       `json:"detail,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{Field: field, Code: code, Message: message},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var mismatch *recondomain.AmountMismatchError
	if errors.As(err, &mismatch) {
		return http.StatusBadRequest, errorPayload{
			Type:    "amount_mismatch",
			Message: mismatch.Error(),
			Detail:  mismatch,
		}
	}

	if isValidationError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "request", Code: err.Error(), Message: err.Error()},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrSessionExpired):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, costsheetdomain.ErrNotEditable):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, costsheetdomain.ErrNotSubmitted):
		return http.StatusConflict, errorPayload{
			Type:    "state_conflict",
			Message: "operation not allowed in current status",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, leaddomain.ErrInvalidLeadNo),
		errors.Is(err, leaddomain.ErrInvalidCustomerName),
		errors.Is(err, costsheetdomain.ErrInvalidCostSheetNo),
		errors.Is(err, costsheetdomain.ErrMissingComments),
		errors.Is(err, costsheetdomain.ErrInvalidPreset),
		errors.Is(err, costsheetdomain.ErrMissingFile),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceNo),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, bankconndomain.ErrInvalidBankName),
		errors.Is(err, bankconndomain.ErrInvalidAccountNumber),
		errors.Is(err, banktxdomain.ErrMissingFile),
		errors.Is(err, banktxdomain.ErrInvalidDate),
		errors.Is(err, banktxdomain.ErrNoActiveConnection),
		errors.Is(err, receiptdomain.ErrInvalidAmount),
		errors.Is(err, receiptdomain.ErrInvalidPaymentDate),
		errors.Is(err, receiptdomain.ErrMissingFile),
		errors.Is(err, recondomain.ErrNoVouchersSelected),
		errors.Is(err, authdomain.ErrInvalidUsername),
		errors.Is(err, authdomain.ErrInvalidPassword):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, leaddomain.ErrDuplicateLeadNo),
		errors.Is(err, costsheetdomain.ErrDuplicateNo),
		errors.Is(err, invoicedomain.ErrDuplicateNo),
		errors.Is(err, authdomain.ErrDuplicateUsername):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, leaddomain.ErrNotFound),
		errors.Is(err, costsheetdomain.ErrNotFound),
		errors.Is(err, costsheetdomain.ErrLeadNotFound),
		errors.Is(err, costsheetdomain.ErrAttachmentNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrLeadNotFound),
		errors.Is(err, bankconndomain.ErrNotFound),
		errors.Is(err, banktxdomain.ErrNotFound),
		errors.Is(err, banktxdomain.ErrConnectionNotFound),
		errors.Is(err, receiptdomain.ErrNotFound),
		errors.Is(err, receiptdomain.ErrInvoiceNotFound),
		errors.Is(err, receiptdomain.ErrAttachmentNotFound),
		errors.Is(err, recondomain.ErrTransactionNotFound),
		errors.Is(err, recondomain.ErrVoucherNotFound),
		errors.Is(err, authdomain.ErrUserNotFound):
		return true
	default:
		return false
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "internal", payload.Type
	}
	return "client", payload.Type
}
