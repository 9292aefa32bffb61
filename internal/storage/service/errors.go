package service

import "errors"

var (
	ErrEmptyFile    = errors.New("file must not be empty")
	ErrWorkNotFound = errors.New("work not found")
)
