package service

import "errors"

var (
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrDisabled     = errors.New("passes_disabled")
	ErrUnauthorized = errors.New("unauthorized")
)
