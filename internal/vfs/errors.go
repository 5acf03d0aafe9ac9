package vfs

import (
	"errors"
	"fmt"
)

var (
	ErrPathNotFound   = errors.New("no such file or directory")
	ErrNotADirectory  = errors.New("not a directory")
	ErrNotAFile       = errors.New("not a file")
	ErrParentNotFound = errors.New("parent directory not found")
	ErrRootTarget     = errors.New("root cannot be a creation target")
	ErrKindConflict   = errors.New("target exists with a different kind")
)

// Error records a failed filesystem operation and the path it concerns.
// For ErrParentNotFound the path is the missing parent.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Reason renders err the way the shell builtins print it after the
// "cannot create ..." prefix.
func Reason(err error) string {
	var fe *Error
	if !errors.As(err, &fe) {
		return err.Error()
	}
	switch {
	case errors.Is(fe.Err, ErrParentNotFound):
		return fmt.Sprintf("Parent directory not found: %s", fe.Path)
	case errors.Is(fe.Err, ErrRootTarget):
		if fe.Op == opCreateDirectory {
			return "Cannot create directory at root"
		}
		return "Cannot create file at root"
	case errors.Is(fe.Err, ErrKindConflict):
		if fe.Op == opCreateDirectory {
			return "File exists"
		}
		return "Is a directory"
	case errors.Is(fe.Err, ErrNotADirectory):
		return "Not a directory"
	case errors.Is(fe.Err, ErrPathNotFound):
		return "No such file or directory"
	}
	return fe.Err.Error()
}
