package service

import (
	"errors"

	dErrors "kyccore/pkg/domain-errors"
	"kyccore/pkg/platform/sentinel"
)

// wrapStoreErr translates store sentinels into domain errors. Errors that
// already carry a domain code pass through unchanged.
func wrapStoreErr(err error, message string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "verification not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "verification already pending")
	default:
		return dErrors.Wrap(err, dErrors.CodePersistence, message)
	}
}
