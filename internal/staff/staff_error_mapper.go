package staff

import (
	"errors"
	"strings"

	stafferrors "github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/staff/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return stafferrors.ErrStaffNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_staff_number":
				return stafferrors.ErrStaffNumberAlreadyExists
			case "uq_staff_email":
				return stafferrors.ErrStaffAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_staff_number") {
		return stafferrors.ErrStaffNumberAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_staff_email") {
		return stafferrors.ErrStaffAlreadyExists
	}

	return err
}
