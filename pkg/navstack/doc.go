// Package navstack keeps an observable model of stacked pages and modals in
// step with an asynchronous presentation host.
//
// The host (a platform navigation controller, a TUI, or the in-memory
// simulator in package simhost) performs the visible push, pop, present and
// dismiss transitions and can also change its own stack, for example on a
// back gesture. The Service translates navigation requests into host calls,
// updates its model only after the host confirms, and reconciles pops the
// host reports on its own.
//
// # Basic Usage
//
//	host := simhost.New(simhost.Options{})
//	defer host.Close()
//
//	nav, err := navstack.New(host, navstack.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer nav.Close()
//
//	nav.PageStack().Subscribe(func(pages []*navstack.Page) {
//	    fmt.Println(navstack.Titles(pages))
//	})
//
//	_ = nav.PushPage(ctx, navstack.NewPage("Home", nil), "", false, true)
//	_ = nav.PushPage(ctx, navstack.NewPage("Details", nil), "", false, true)
//	_ = nav.PopPages(ctx, 1, true)
//
// # Modals
//
// A bare modal (NewModal) has no page stack; while it is on top, page
// operations fail with ErrNoActiveStack. A navigation modal
// (NewNavigationModal) owns a page stack, and page operations target it until
// the modal is dismissed, after which the root stack is active again.
//
// # Errors
//
// Precondition failures are returned as *StackError wrapping one of the
// sentinel errors and never reach the host. Host failures are returned as
// *HostError and leave the model unchanged. Describe renders either in the
// user's language.
package navstack
