package models

import "sort"

// MessageResponse is the {"msg": "..."} body used both for errors and for
// simple success notices like "User deleted".
type MessageResponse struct {
	Msg string `json:"msg"`
}

func NewErrorResponse(msg string) MessageResponse {
	return MessageResponse{Msg: msg}
}

func NewMessageResponse(msg string) MessageResponse {
	return MessageResponse{Msg: msg}
}

// FieldError is one entry in a validation error body.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// ValidationErrorResponse wraps field errors: {"errors": [{"msg": ..., "param": ...}]}.
type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationErrorResponse converts a field->message map into a stable,
// param-sorted errors array.
func NewValidationErrorResponse(errors map[string]string) ValidationErrorResponse {
	params := make([]string, 0, len(errors))
	for p := range errors {
		params = append(params, p)
	}
	sort.Strings(params)

	out := make([]FieldError, 0, len(params))
	for _, p := range params {
		out = append(out, FieldError{Msg: errors[p], Param: p})
	}
	return ValidationErrorResponse{Errors: out}
}

// NewConflictResponse reports a duplicate unique field in the errors-array shape.
func NewConflictResponse(msg string) ValidationErrorResponse {
	return ValidationErrorResponse{Errors: []FieldError{{Msg: msg}}}
}
