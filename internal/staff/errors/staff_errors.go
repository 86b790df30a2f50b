package stafferrors

import (
	"net/http"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/apperror"
)

var (
	ErrStaffNotFound = apperror.New(
		apperror.CodeNotFound,
		"Staff member not found",
		http.StatusNotFound,
	)
	ErrStaffAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Staff member with the same email already exists",
		http.StatusConflict,
	)
	ErrStaffNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Staff number already exists at this property",
		http.StatusConflict,
	)
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid staff ID",
		http.StatusBadRequest,
	)
	ErrInvalidPropertyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid property ID",
		http.StatusBadRequest,
	)
	ErrInvalidSupervisor = apperror.New(
		apperror.CodeInvalidInput,
		"Supervisor does not belong to this property",
		http.StatusBadRequest,
	)
)
