package bin

import "errors"

var (
	ErrBinNotFound      = errors.New("bin not found")
	ErrBinAlreadyExists = errors.New("bin already exists")
	ErrNoUpdates        = errors.New("at least one field must be provided")
)
