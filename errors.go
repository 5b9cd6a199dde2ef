package notecheck

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrLoad          = errors.New("load error")
	ErrInvalidState  = errors.New("invalid state")
)

// ConfigurationError reports a missing or unusable template source. It is fatal at startup.
type ConfigurationError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// LoadError reports an image that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load image: %v", e.Err)
	}
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// InvalidStateError reports an operation invoked before its inputs exist.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

var (
	errNoInput     = &InvalidStateError{Msg: "no input image loaded"}
	errNoTemplates = &InvalidStateError{Msg: "no templates loaded"}
)
