package navstack

// Op identifies a navigation operation, either one requested from the Service
// or one issued to the Host.
type Op int

const (
	OpPushPage       Op = iota // Service.PushPage / Host.PushPage
	OpInsertPage               // Service.InsertPage / Host.InsertPage
	OpPopToPage                // Service.PopToPage
	OpPopPages                 // Service.PopPages
	OpPushModal                // Service.PushModal / Host.PushModal
	OpPopModal                 // Service.PopModal / Host.PopModal
	OpPopPage                  // Host.PopPage
	OpRemovePage               // Host.RemovePage
	OpReconcilePage            // host-originated page pop
	OpReconcileModal           // host-originated modal pop
	OpNew                      // Service construction
)

func (o Op) String() string {
	switch o {
	case OpPushPage:
		return "push_page"
	case OpInsertPage:
		return "insert_page"
	case OpPopToPage:
		return "pop_to_page"
	case OpPopPages:
		return "pop_pages"
	case OpPushModal:
		return "push_modal"
	case OpPopModal:
		return "pop_modal"
	case OpPopPage:
		return "pop_page"
	case OpRemovePage:
		return "remove_page"
	case OpReconcilePage:
		return "reconcile_page"
	case OpReconcileModal:
		return "reconcile_modal"
	case OpNew:
		return "new"
	default:
		return "unknown"
	}
}

// StackState is the state of a single logical stack.
// There is no terminal state; a stack moves between these for the lifetime
// of the navigation session.
type StackState int

const (
	StateEmpty    StackState = iota // no entries
	StateNonEmpty                   // at least one entry
)

func (s StackState) String() string {
	if s == StateNonEmpty {
		return "non_empty"
	}
	return "empty"
}

func stateOf(n int) StackState {
	if n > 0 {
		return StateNonEmpty
	}
	return StateEmpty
}
