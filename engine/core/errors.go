package core

import (
	"errors"
)

var (
	ErrInvalidHandle = errors.New("invalid resource handle")
	ErrTableFull     = errors.New("resource table is full")
	ErrUnknown       = errors.New("unknown")
)
