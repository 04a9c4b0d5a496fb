package service

import (
	"net/http"

	commonerrors "github.com/devlink/devlink/backend/internal/common/errors"
)

var (
	ErrPostNotFound = commonerrors.NewDomainError(
		"POST_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"post not found",
	)

	ErrAlreadyLiked = commonerrors.NewDomainError(
		"ALREADY_LIKED",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"post already liked",
	)

	ErrNotLiked = commonerrors.NewDomainError(
		"NOT_LIKED",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"post has not been liked",
	)

	ErrCommentNotFound = commonerrors.NewDomainError(
		"COMMENT_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"comment does not exist",
	)
)
