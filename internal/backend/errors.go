package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is raised before any request is issued, or when the backend
// rejects the request body.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

// NotFoundError reports that the backend does not know the app.
type NotFoundError struct {
	AppID  string
	Detail string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("app %q not found: %s", e.AppID, e.Detail)
	}
	return fmt.Sprintf("app %q not found", e.AppID)
}

// InsufficientDataError reports that topic modeling was requested on too few reviews.
type InsufficientDataError struct {
	AppID  string
	Detail string
}

func (e *InsufficientDataError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("not enough data for %q: %s", e.AppID, e.Detail)
	}
	return fmt.Sprintf("not enough data for %q", e.AppID)
}

// UpstreamError is any other backend or transport failure. Status is zero
// when no HTTP response was received.
type UpstreamError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Detail extracts the human-readable backend detail from err, if any.
func Detail(err error) string {
	var (
		verr *ValidationError
		nerr *NotFoundError
		ierr *InsufficientDataError
		uerr *UpstreamError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Detail
	case errors.As(err, &nerr):
		return nerr.Detail
	case errors.As(err, &ierr):
		return ierr.Detail
	case errors.As(err, &uerr):
		return uerr.Detail
	}
	return ""
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var target *InsufficientDataError
	return errors.As(err, &target)
}

// ValidateAppID rejects empty or whitespace-only app ids.
func ValidateAppID(appID string) error {
	if strings.TrimSpace(appID) == "" {
		return &ValidationError{Field: "app_id"}
	}
	return nil
}
