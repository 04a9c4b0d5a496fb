package service

import (
	"net/http"

	commonerrors "github.com/devlink/devlink/backend/internal/common/errors"
)

var (
	ErrProfileNotFound = commonerrors.NewDomainError(
		"PROFILE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"there is no profile for this user",
	)

	ErrExperienceNotFound = commonerrors.NewDomainError(
		"EXPERIENCE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"experience entry not found",
	)

	ErrEducationNotFound = commonerrors.NewDomainError(
		"EDUCATION_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"education entry not found",
	)
)
