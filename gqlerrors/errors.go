// Package gqlerrors defines the error shape returned to GraphQL clients:
// a message, a machine-readable code carried in extensions, and the paths
// of the arguments that caused the failure, when known.
package gqlerrors

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Extensions carries the machine-readable part of an error.
type Extensions struct {
	Code string `json:"code"`
}

// Error is a single entry of the errors array of a GraphQL response.
type Error struct {
	Message    string      `json:"message"`
	Extensions *Extensions `json:"extensions"`
	Paths      []string    `json:"paths"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given status code and message.
func New(code codes.Code, message string) *Error {
	return &Error{
		Message:    message,
		Extensions: &Extensions{Code: code.String()},
		Paths:      []string{},
	}
}

// ConvertError classifies an error for the response. Status errors keep
// their code and contribute the field paths of any BadRequest details;
// everything else is reported with code Unknown.
func ConvertError(err error) *Error {
	if err == nil {
		return nil
	}
	if converted, ok := err.(*Error); ok {
		return converted
	}

	st, ok := status.FromError(err)
	code := codes.Unknown
	if ok {
		code = st.Code()
	}

	paths := []string{}
	for _, detail := range st.Details() {
		badRequest, ok := detail.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, violation := range badRequest.GetFieldViolations() {
			paths = append(paths, violation.GetField())
		}
	}

	return &Error{
		Message:    st.Message(),
		Extensions: &Extensions{Code: code.String()},
		Paths:      paths,
	}
}
