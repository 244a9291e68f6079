package asset

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrUnknownSound      = errors.New("unknown sound")
	ErrDecode            = errors.New("audio decode failed")
	ErrEmpty             = errors.New("audio stream is empty")
)
