package errdef

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeUnknown    Code = "unknown"
	CodeHTTP       Code = "http"
	CodeParse      Code = "parse"
	CodeFilesystem Code = "filesystem"
	CodeConfig     Code = "config"
	CodeCatalog    Code = "catalog"
	CodeIdentity   Code = "identity"
)

// Error tags a failure with the subsystem that produced it.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	default:
		return e.Msg + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: sprintf(format, args...)}
}

// Wrap returns nil when err is nil so call sites can wrap unconditionally.
func Wrap(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Msg: sprintf(format, args...), Err: err}
}

// CodeOf reports the outermost code in the chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return CodeUnknown
}

// Message renders err for people: the full chain without a trailing newline.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
