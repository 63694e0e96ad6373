package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	SubjectKey    contextKey = "subject"
	RoleKey       contextKey = "role"
	CustomerIDKey contextKey = "customer_id"
)

const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{}
	if field != "" {
		details[field] = message
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendConflictError sends a 409 for requests that clash with current state
func SendConflictError(c echo.Context, code, message string, details map[string]string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse(code, message, details))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendForbiddenError sends a forbidden error response
func SendForbiddenError(c echo.Context) error {
	return c.JSON(http.StatusForbidden, CreateErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
}

// ValidateUUID parses a UUID path or body value
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, "is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, "must be a valid UUID")
	}
	return id, nil
}

// ParseCivilDate parses a YYYY-MM-DD date in the given location
func ParseCivilDate(dateStr, fieldName string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(dateStr), loc)
	if err != nil {
		return time.Time{}, NewValidationError(fieldName, "must be in YYYY-MM-DD format")
	}
	return date, nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SanitizeSearchQuery strips LIKE wildcards and bounds the query length
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	if len(query) > 100 {
		query = query[:100]
	}
	return strings.TrimSpace(query)
}

// ValidateSortOrder validates sort order parameters
func ValidateSortOrder(sortOrder string) string {
	if strings.ToLower(sortOrder) == "asc" {
		return "ASC"
	}
	return "DESC"
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, NewValidationError("offset", "cannot exceed 1,000,000")
	}
	return limit, offset, nil
}

// ValidateDateRange rejects inverted ranges and ranges longer than maxDays days
func ValidateDateRange(startDate, endDate time.Time, maxDays int) error {
	if endDate.Before(startDate) {
		return NewValidationError("to", "cannot be before from")
	}
	if maxDays > 0 && endDate.Sub(startDate) > time.Duration(maxDays)*24*time.Hour {
		return NewValidationError("to", fmt.Sprintf("date range cannot exceed %d days", maxDays))
	}
	return nil
}

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	Subject    string
	Role       string
	CustomerID *uuid.UUID
}

func (p Principal) IsStaff() bool {
	return p.Role == RoleStaff || p.Role == RoleAdmin
}

// WithPrincipal stores the caller in ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, SubjectKey, p.Subject)
	ctx = context.WithValue(ctx, RoleKey, p.Role)
	if p.CustomerID != nil {
		ctx = context.WithValue(ctx, CustomerIDKey, *p.CustomerID)
	}
	return ctx
}

// GetPrincipalFromContext extracts the caller from the request context
func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	if !ok {
		return Principal{}, false
	}
	p := Principal{Role: role}
	p.Subject, _ = ctx.Value(SubjectKey).(string)
	if customerID, ok := ctx.Value(CustomerIDKey).(uuid.UUID); ok {
		p.CustomerID = &customerID
	}
	return p, true
}
