package core

import "errors"

var (
	ErrUnknownMode     = errors.New("unknown analysis mode")
	ErrEmptyTable      = errors.New("empty district table")
	ErrRowCount        = errors.New("unexpected district row count")
	ErrDuplicateName   = errors.New("duplicate district name")
	ErrDerivedMismatch = errors.New("derived column mismatch")
	ErrUnknownColumn   = errors.New("unknown column")
)
