// Package checkpoint decorates errors with the file and line they passed
// through, which results in something similar to a stacktrace.
// Both the wrapped error and the describing sentinel stay reachable with
// errors.Is and errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err into a checkpoint carrying the caller position.
// It returns nil if err is nil.
func From(err error) error {
	if passThrough(err) {
		return err
	}
	return newCheckpoint(err, nil)
}

// Wrap records a checkpoint for prev and describes it by err. Usually err is
// a predefined sentinel:
//
//	var ErrSomethingBroke = errors.New("something broke")
//
//	func someFunction() error {
//		err := somethingThatFails()
//		return checkpoint.Wrap(err, ErrSomethingBroke)
//	}
//
// Afterwards errors.Is matches both ErrSomethingBroke and whatever
// somethingThatFails returned.
// Returns nil if prev is nil.
func Wrap(prev, err error) error {
	if passThrough(prev) {
		return prev
	}
	return newCheckpoint(prev, err)
}

// Wrapf is like Wrap but describes the checkpoint with a formatted message
// which may itself wrap a sentinel using %w.
func Wrapf(prev error, format string, args ...interface{}) error {
	if passThrough(prev) {
		return prev
	}
	return newCheckpoint(prev, fmt.Errorf(format, args...))
}

// passThrough reports whether err must be returned as is.
// io.EOF has to stay comparable with == (https://github.com/golang/go/issues/39155).
func passThrough(err error) bool {
	return err == nil || err == io.EOF || err == io.ErrUnexpectedEOF
}

func newCheckpoint(prev, err error) *checkpoint {
	// Skip newCheckpoint and the exported entry point.
	_, file, line, ok := runtime.Caller(2)
	return &checkpoint{
		err:      err,
		prev:     prev,
		callerOk: ok,
		file:     filepath.Base(file),
		line:     line,
	}
}

type checkpoint struct {
	err  error
	prev error

	callerOk bool
	file     string
	line     int
}

func (e *checkpoint) location() string {
	if !e.callerOk {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

func (e *checkpoint) Error() string {
	var b strings.Builder
	b.WriteString("File: ")
	b.WriteString(e.location())
	if e.err != nil {
		b.WriteString("\n\t")
		b.WriteString(e.err.Error())
	}

	prev := e.prev.Error()
	if _, ok := e.prev.(*checkpoint); !ok {
		prev = "File: unknown\n\t" + strings.ReplaceAll(prev, "\n", "\n\t")
	}
	b.WriteString("\n")
	b.WriteString(prev)
	return b.String()
}

func (e *checkpoint) Unwrap() error {
	return e.prev
}

func (e *checkpoint) Is(target error) bool {
	return e.err != nil && errors.Is(e.err, target)
}

func (e *checkpoint) As(target interface{}) bool {
	return e.err != nil && errors.As(e.err, target)
}
