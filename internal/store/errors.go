package store

import (
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
)

// Sentinel errors. They carry domain error codes so callers above the
// store can match them with errors.Is against internal/errors sentinels.
var (
	ErrNotFound      = domainerrors.NotFound("resource not found")
	ErrAlreadyExists = &domainerrors.Error{Code: domainerrors.CodeAlreadyExists, Message: "resource already exists"}
	ErrInvalidInput  = domainerrors.Validation("invalid input")
)
