// Package apierror holds value-typed problem errors shared by the server,
// the auth layer and the client.
package apierror

import (
	"errors"

	"github.com/romyengine/romy/apitypes"
)

func ErrUnauthorized(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 401, Title: "Unauthorized", Detail: detail}
}
func ErrNotFound(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrInternal(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 500, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into apitypes.ApiError.
func WrapError(err error) apitypes.ApiError {
	var pe *apitypes.ApiError
	if errors.As(err, &pe) {
		return *pe
	}
	var ve apitypes.ApiError
	if errors.As(err, &ve) {
		return ve
	}
	return ErrInternal(err.Error())
}
