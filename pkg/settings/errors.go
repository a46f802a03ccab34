package settings

import "errors"

var (
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("settings: store is closed")

	// ErrReloadAfterSubmit wraps a reload failure that followed a successful update.
	// The update itself reached the server.
	ErrReloadAfterSubmit = errors.New("settings: update succeeded but reload failed")
)
