package api

import (
	"errors"

	"github.com/romyengine/romy/apitypes"
)

// Factory helpers returning *apitypes.ApiError (single canonical error type).
func ErrBadRequest(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: detail}
}
func ErrNotFound(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrTooLarge(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 413, Title: "Payload Too Large", Detail: detail}
}
func ErrUnprocessable(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 422, Title: "Unprocessable Entity", Detail: detail}
}
func ErrInternal(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 500, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into *apitypes.ApiError.
func WrapError(err error) *apitypes.ApiError {
	if err == nil {
		return nil
	}
	var pe *apitypes.ApiError
	if errors.As(err, &pe) {
		return pe
	}
	var ve apitypes.ApiError
	if errors.As(err, &ve) {
		return &ve
	}
	return ErrInternal(err.Error())
}
