package propertyerrors

import (
	"net/http"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/apperror"
)

var (
	ErrPropertyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Property not found",
		http.StatusNotFound,
	)

	ErrPropertyAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Property with the same code already exists",
		http.StatusConflict,
	)

	ErrInvalidPropertyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid property ID",
		http.StatusBadRequest,
	)
)
