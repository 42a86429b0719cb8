// Package kargoerr defines the shared error taxonomy used across every
// component: dependency resolution, manifest parsing, compilation,
// network access, toolchain discovery. Callers type-assert with
// errors.As to recover the Kind and an optional remedy hint.
package kargoerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the taxonomy's buckets.
type Kind string

const (
	KindIO          Kind = "io"
	KindManifest    Kind = "manifest"
	KindResolution  Kind = "resolution"
	KindCompilation Kind = "compilation"
	KindNetwork     Kind = "network"
	KindToolchain   Kind = "toolchain"
	KindGeneric     Kind = "generic"
)

// Error is the shared error type. Hint, when non-empty, names an
// actionable remedy (e.g. "run `kargo fetch`") that callers should
// surface alongside Message.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func IO(format string, args ...interface{}) *Error {
	return newErr(KindIO, format, args...)
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Manifest(format string, args ...interface{}) *Error {
	e := newErr(KindManifest, format, args...)
	e.Hint = "check your Kargo.toml for syntax errors"
	return e
}

func Resolution(format string, args ...interface{}) *Error {
	return newErr(KindResolution, format, args...)
}

func Compilation(format string, args ...interface{}) *Error {
	return newErr(KindCompilation, format, args...)
}

func Network(format string, args ...interface{}) *Error {
	return newErr(KindNetwork, format, args...)
}

func ChecksumMismatch(path string) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("checksum mismatch for %s", path),
		Hint:    "remove .kargo/dependencies and re-run `kargo fetch`",
	}
}

func Toolchain(format string, args ...interface{}) *Error {
	return newErr(KindToolchain, format, args...)
}

func Generic(format string, args ...interface{}) *Error {
	return newErr(KindGeneric, format, args...)
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
