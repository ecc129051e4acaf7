package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors shared across services.
var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned when a presented token fails validation.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TenantNotFoundError indicates a tenant lookup by id or subdomain missed.
type TenantNotFoundError struct {
	ID        uint
	Subdomain string
}

func (e *TenantNotFoundError) Error() string {
	if e.Subdomain != "" {
		return fmt.Sprintf("Tenant not found with subdomain: %s", e.Subdomain)
	}
	return fmt.Sprintf("Tenant not found with id: %d", e.ID)
}

// DuplicateSubdomainError indicates a subdomain is already taken by another tenant.
type DuplicateSubdomainError struct {
	Subdomain string
}

func (e *DuplicateSubdomainError) Error() string {
	return fmt.Sprintf("Tenant already exists with subdomain: %s", e.Subdomain)
}

// InvalidTenantParameterError indicates a malformed request parameter, detected
// before any repository access.
type InvalidTenantParameterError struct {
	Parameter string
	Message   string
}

func (e *InvalidTenantParameterError) Error() string {
	return fmt.Sprintf("Invalid tenant parameter: %s %s", e.Parameter, e.Message)
}

// UserNotFoundError indicates a user lookup missed.
type UserNotFoundError struct {
	ID       uint
	Username string
}

func (e *UserNotFoundError) Error() string {
	if e.Username != "" {
		return fmt.Sprintf("User not found with username: %s", e.Username)
	}
	return fmt.Sprintf("User not found with id: %d", e.ID)
}

// DuplicateUsernameError indicates a username is already registered.
type DuplicateUsernameError struct {
	Username string
}

func (e *DuplicateUsernameError) Error() string {
	return fmt.Sprintf("User already exists with username: %s", e.Username)
}

// DuplicateEmailError indicates an email is already registered.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("User already exists with email: %s", e.Email)
}

// InvalidRoleNameError indicates a role name outside the fixed enumeration.
type InvalidRoleNameError struct {
	Names []string
}

func (e *InvalidRoleNameError) Error() string {
	return fmt.Sprintf("Invalid roles: %v", e.Names)
}

// ValidationError carries one detail line per invalid request field. Field
// errors are collected, not short-circuited.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Details)
}

// ErrorResponse is the uniform error body returned by every error response.
type ErrorResponse struct {
	Title            string   `json:"title"`
	Status           int      `json:"status"`
	Details          []string `json:"details"`
	TimeStamp        int64    `json:"timeStamp"`
	DeveloperMessage string   `json:"developerMessage"`
}

// NewErrorResponse builds the body for an error, stamping the current time in
// epoch milliseconds. DeveloperMessage carries the internal error category
// name, not end-user text.
func NewErrorResponse(title string, status int, err error, details ...string) ErrorResponse {
	return ErrorResponse{
		Title:            title,
		Status:           status,
		Details:          details,
		TimeStamp:        time.Now().UnixMilli(),
		DeveloperMessage: fmt.Sprintf("%T", err),
	}
}

// MapToResponse converts any error raised by the services into the HTTP status
// and uniform error body to write.
func MapToResponse(err error) (int, ErrorResponse) {
	var (
		tenantNotFound *TenantNotFoundError
		dupSubdomain   *DuplicateSubdomainError
		invalidParam   *InvalidTenantParameterError
		userNotFound   *UserNotFoundError
		dupUsername    *DuplicateUsernameError
		dupEmail       *DuplicateEmailError
		invalidRole    *InvalidRoleNameError
		validation     *ValidationError
	)
	switch {
	case errors.As(err, &tenantNotFound):
		return http.StatusNotFound, NewErrorResponse("Tenant Not Found", http.StatusNotFound, tenantNotFound, tenantNotFound.Error())
	case errors.As(err, &dupSubdomain):
		return http.StatusBadRequest, NewErrorResponse("Duplicate Subdomain", http.StatusBadRequest, dupSubdomain, dupSubdomain.Error())
	case errors.As(err, &invalidParam):
		return http.StatusBadRequest, NewErrorResponse("Invalid Tenant Parameter", http.StatusBadRequest, invalidParam, invalidParam.Error())
	case errors.As(err, &userNotFound):
		return http.StatusNotFound, NewErrorResponse("User Not Found", http.StatusNotFound, userNotFound, userNotFound.Error())
	case errors.As(err, &dupUsername):
		return http.StatusBadRequest, NewErrorResponse("Duplicate Username", http.StatusBadRequest, dupUsername, dupUsername.Error())
	case errors.As(err, &dupEmail):
		return http.StatusBadRequest, NewErrorResponse("Duplicate Email", http.StatusBadRequest, dupEmail, dupEmail.Error())
	case errors.As(err, &invalidRole):
		return http.StatusBadRequest, NewErrorResponse("Invalid Role Name", http.StatusBadRequest, invalidRole, invalidRole.Error())
	case errors.As(err, &validation):
		return http.StatusBadRequest, NewErrorResponse("Validation Error", http.StatusBadRequest, validation, validation.Details...)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, NewErrorResponse("Authentication Failed", http.StatusUnauthorized, err, err.Error())
	default:
		return http.StatusInternalServerError, NewErrorResponse("Internal Server Error", http.StatusInternalServerError, err, "an unexpected error occurred")
	}
}
