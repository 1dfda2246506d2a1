package navstack

import "github.com/BrandonKowalski/navstack/pkg/navstack/stack"

// StackKind tags which page stack is currently active.
type StackKind int

const (
	NoStack     StackKind = iota // top modal is bare; page operations fail
	RootStack                    // modal stack is empty; the root page stack is active
	NestedStack                  // top modal is a navigation modal; its stack is active
)

func (k StackKind) String() string {
	switch k {
	case RootStack:
		return "root"
	case NestedStack:
		return "nested"
	default:
		return "none"
	}
}

// ActiveStack is the page stack targeted by page operations. It is derived
// from the top of the modal stack and never stored on its own.
type ActiveStack struct {
	Kind  StackKind
	Modal *Modal // owning modal for NestedStack and NoStack, nil for RootStack

	stack *stack.Stack[*Page]
}

// Pages returns the active stack as an observable, or nil for NoStack.
func (a ActiveStack) Pages() stack.Observable[*Page] {
	if a.stack == nil {
		return nil
	}
	return a.stack
}

// Snapshot returns the active pages, or nil for NoStack.
func (a ActiveStack) Snapshot() []*Page {
	if a.stack == nil {
		return nil
	}
	return a.stack.Snapshot()
}

// Len returns the number of active pages, 0 for NoStack.
func (a ActiveStack) Len() int {
	if a.stack == nil {
		return 0
	}
	return a.stack.Len()
}

// selectActive picks the active page stack from a modal stack snapshot.
func selectActive(root *stack.Stack[*Page], modals []*Modal) ActiveStack {
	if len(modals) == 0 {
		return ActiveStack{Kind: RootStack, stack: root}
	}

	top := modals[len(modals)-1]
	if top.HasNavigation() {
		return ActiveStack{Kind: NestedStack, Modal: top, stack: top.pages}
	}
	return ActiveStack{Kind: NoStack, Modal: top}
}
