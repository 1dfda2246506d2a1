// Package stack provides observable, ordered containers used to hold page and
// modal stacks.
//
// A Stack behaves like a reactive value cell: it always has a current snapshot,
// and every change emits the full ordered snapshot to its subscribers. A new
// subscriber receives the current snapshot immediately, so it never has to
// special-case "nothing emitted yet".
//
// # Basic Usage
//
//	pages := stack.New[string]()
//
//	id := pages.Subscribe(func(snapshot []string) {
//	    fmt.Println(snapshot)
//	})
//	defer pages.Unsubscribe(id)
//
//	pages.Push("home")     // [home]
//	pages.Push("details")  // [home details]
//	pages.Pop()            // [home]
//
// # Mirrors
//
// A Mirror follows one source at a time and re-emits its snapshots. Switching
// sources with Follow emits the new source's current snapshot, which is how a
// "currently active stack" can be exposed as a single stream even though the
// underlying container changes:
//
//	root := stack.New("home")
//	nested := stack.New("settings")
//
//	active := stack.NewMirror[string](root)
//	active.Follow(nested) // subscribers see [settings]
//	active.Follow(root)   // subscribers see [home]
//
// # Writers
//
// Containers are safe for concurrent use, but snapshot ordering is only
// guaranteed with a single writer. Owners that mutate a container from more
// than one goroutine should funnel the mutations through one lock.
package stack
