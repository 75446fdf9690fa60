package services

import (
	"errors"

	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/repositories"
)

// fromRepo re-classifies gateway errors for the HTTP boundary.
// resource names the entity in not-found and duplicate messages.
func fromRepo(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrRecordNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.Duplicate(resource + " already exists")
	}
	return err
}
