package repository

import "errors"

var (
	ErrGameRecordNotFound = errors.New("game record not found")
	ErrSnapshotNotFound   = errors.New("table snapshot not found")
	ErrStorage            = errors.New("storage error")
)
