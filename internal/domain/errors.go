package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// UnsupportedSectionError reports a plan mutation aimed at a section that
// cannot carry that operation (unknown name, or collection ops on the scalar
// budget section).
type UnsupportedSectionError struct {
	Section string
	Op      string
}

func (e UnsupportedSectionError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("section %q does not support %s", e.Section, e.Op)
	}
	return fmt.Sprintf("unsupported section %q", e.Section)
}

// InvalidPayloadError reports a mutation payload whose shape does not fit the
// target section.
type InvalidPayloadError struct {
	Section string
	Msg     string
}

func (e InvalidPayloadError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("invalid payload for %q: %s", e.Section, e.Msg)
	}
	return fmt.Sprintf("invalid payload for %q", e.Section)
}

// UnauthorizedError reports a rejected realtime join or HTTP request.
type UnauthorizedError struct {
	Reason string
}

func (e UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return e.Reason
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnsupportedSection(err error) bool {
	var target UnsupportedSectionError
	return errors.As(err, &target)
}

func IsInvalidPayload(err error) bool {
	var target InvalidPayloadError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}
