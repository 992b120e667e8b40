package middleware

import "github.com/entitle-inc/entitle/internal/shared/errors"

func errForbidden(action string) *errors.AppError {
	return errors.NewForbiddenError("this credential may not perform " + action).WithReason("forbidden")
}
