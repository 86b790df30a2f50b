package approvalerrors

import (
	"net/http"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/apperror"
)

var (
	ErrNotAuthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"no requesting actor is present",
		http.StatusUnauthorized,
	)
	ErrInvalidPropertyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid property id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEntityID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid entity id",
		http.StatusBadRequest,
	)
	ErrInvalidAssigneeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignee id",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval request not found",
		http.StatusNotFound,
	)
)
