package navstack

import "context"

// PoppedPage is emitted by the host when it removes a page on its own,
// for example after a back gesture.
type PoppedPage struct {
	Page *Page // Page the host removed, if known
}

// Host performs the visual navigation the Service asks for and reports pops
// it performs on its own. Implementations own rendering and view resolution;
// the Service never inspects views.
//
// Methods taking a context block until the transition has finished. A failed
// call must leave the host's visual stack unchanged.
//
// InsertPage and RemovePage are called while the Service holds its model
// lock, which the reconciliation listener also takes. No method may block
// on delivering a PagePopped or ModalPopped signal: queue signals, or send
// them from another goroutine.
type Host interface {
	// PushPage pushes page onto the active visual stack, clearing the stack
	// first when resetStack is set.
	PushPage(ctx context.Context, page *Page, contract string, resetStack, animate bool) error

	// PopPage pops the top of the active visual stack. It must not emit on
	// PagePopped.
	PopPage(ctx context.Context, animate bool) error

	// InsertPage inserts page before the page at index, without animation.
	InsertPage(index int, page *Page, contract string) error

	// RemovePage removes the page at index, without animation.
	RemovePage(index int) error

	// PushModal presents page modally. With withNavStack set, the modal gets
	// its own visual page stack rooted at page.
	PushModal(ctx context.Context, page *Page, contract string, withNavStack bool) error

	// PopModal dismisses the top modal. The dismissal must also be reported
	// on ModalPopped; the Service removes the modal from its model only then.
	PopModal(ctx context.Context) error

	// PagePopped emits once per page the host pops without being asked.
	PagePopped() <-chan PoppedPage

	// ModalPopped emits once per modal dismissal, requested or not.
	ModalPopped() <-chan struct{}
}
