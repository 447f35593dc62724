package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage failure")
	ErrFilesystem    = errors.New("filesystem failure")
	ErrArchive       = errors.New("archive failure")
	ErrProcessLaunch = errors.New("process launch failure")
	ErrNetwork       = errors.New("network failure")

	// ErrCancelled is returned when the user dismisses a dialog or declines a
	// confirmation. Handlers treat it as a successful no-op.
	ErrCancelled = errors.New("cancelled")
)

// Kind classifies a failure for the caller.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindStorage
	KindFilesystem
	KindArchive
	KindProcessLaunch
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindStorage:
		return "storage"
	case KindFilesystem:
		return "filesystem"
	case KindArchive:
		return "archive"
	case KindProcessLaunch:
		return "process launch"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindStorage:
		return ErrStorage
	case KindFilesystem:
		return ErrFilesystem
	case KindArchive:
		return ErrArchive
	case KindProcessLaunch:
		return ErrProcessLaunch
	case KindNetwork:
		return ErrNetwork
	default:
		return nil
	}
}

// Error is a classified failure. The underlying cause is always kept.
type Error struct {
	Kind Kind
	Op   string // e.g. "fetching installed builds"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, domain.ErrNotFound) match any Error of that kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// E wraps err with a kind and operation. A nil err yields nil. An err that is
// already classified keeps its kind.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		kind = de.Kind
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// NotFound builds a NotFound error for an entity lookup.
func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Op: fmt.Sprintf("%s %q", entity, id), Err: ErrNotFound}
}

// KindOf returns the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
