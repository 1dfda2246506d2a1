package navstack

import (
	"errors"
	"fmt"
)

// Sentinel errors for precondition and consistency failures.
// Match them with errors.Is; the returned errors wrap them in *StackError.
var (
	// ErrNullArgument indicates a nil page, modal or host argument.
	ErrNullArgument = errors.New("argument is nil")

	// ErrIndexOutOfRange indicates an index outside [0, length).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidPopCount indicates a pop count <= 0 or >= the stack length.
	ErrInvalidPopCount = errors.New("invalid pop count")

	// ErrNoActiveStack indicates a page operation while the top modal has no
	// page stack of its own.
	ErrNoActiveStack = errors.New("no active page stack")

	// ErrEmptyNavigationModal indicates a navigation modal pushed with no pages.
	ErrEmptyNavigationModal = errors.New("navigation modal has no pages")

	// ErrEmptyStackPop indicates a pop against an empty stack. Raised by the
	// reconciliation listener it means the host and the model have diverged.
	ErrEmptyStackPop = errors.New("pop from empty stack")

	// ErrEmptyTitle indicates a page without a display title.
	ErrEmptyTitle = errors.New("page title is empty")

	// ErrClosed indicates the Service has been closed.
	ErrClosed = errors.New("service closed")
)

// StackError is a precondition or consistency failure. No host call was
// issued and the model was left unchanged.
type StackError struct {
	Op    Op    // Operation that failed
	Index int   // Requested index (ErrIndexOutOfRange only)
	Count int   // Requested pop count (ErrInvalidPopCount only)
	Len   int   // Length of the targeted stack (range and count errors only)
	Err   error // One of the sentinel errors

	detail string
}

func (e *StackError) Error() string {
	return fmt.Sprintf("navstack: %s: %v%s", e.Op, e.Err, e.detail)
}

func (e *StackError) Unwrap() error {
	return e.Err
}

func newStackError(op Op, err error) *StackError {
	return &StackError{Op: op, Err: err}
}

func indexError(op Op, index, length int) *StackError {
	return &StackError{
		Op:     op,
		Index:  index,
		Len:    length,
		Err:    ErrIndexOutOfRange,
		detail: fmt.Sprintf(" (index %d, length %d)", index, length),
	}
}

func popCountError(op Op, count, length int) *StackError {
	return &StackError{
		Op:     op,
		Count:  count,
		Len:    length,
		Err:    ErrInvalidPopCount,
		detail: fmt.Sprintf(" (count %d, length %d)", count, length),
	}
}

// HostError is a failure reported by the Host. The model is not mutated when
// an operation fails this way.
type HostError struct {
	Op  Op    // Host operation that failed
	Err error // Underlying error
}

func (e *HostError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("navstack: host %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("navstack: host %s", e.Op)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// NewHostError creates a new host error.
func NewHostError(op Op, err error) *HostError {
	return &HostError{Op: op, Err: err}
}

// IsHostError checks if an error came from the Host.
func IsHostError(err error) bool {
	var hostErr *HostError
	return errors.As(err, &hostErr)
}

// IsPrecondition checks if an error is a precondition failure detected
// before any host call.
func IsPrecondition(err error) bool {
	var stackErr *StackError
	return errors.As(err, &stackErr) && !IsDesync(err)
}

// IsDesync checks if an error reports a host/model divergence.
func IsDesync(err error) bool {
	var stackErr *StackError
	if !errors.As(err, &stackErr) {
		return false
	}
	return errors.Is(stackErr.Err, ErrEmptyStackPop) &&
		(stackErr.Op == OpReconcilePage || stackErr.Op == OpReconcileModal)
}
