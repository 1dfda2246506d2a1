// Package simhost is an in-memory navstack.Host.
//
// It keeps the visual state a platform navigation controller would: a root
// page stack and a stack of presented modals, each optionally with its own
// page stack. Views are resolved on a background goroutine and every change
// to the visual state is applied on a single main-loop goroutine, mirroring
// the background/UI split of a real toolkit. Animated transitions take
// Options.TransitionDelay.
//
// Back and SwipeDismiss simulate user-initiated navigation and are reported
// on PagePopped and ModalPopped, which makes the host useful for exercising
// reconciliation in tests and in the navsim tool.
package simhost

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BrandonKowalski/navstack/pkg/navstack"
	"github.com/BrandonKowalski/navstack/pkg/navstack/constants"
	"go.uber.org/atomic"
)

var (
	// ErrNoNavigation is returned for page operations while the top modal has
	// no page stack.
	ErrNoNavigation = errors.New("simhost: top modal has no navigation stack")

	// ErrNothingToPop is returned when there is no page or modal to remove.
	ErrNothingToPop = errors.New("simhost: nothing to pop")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("simhost: closed")
)

// Options configures a Host.
type Options struct {
	TransitionDelay time.Duration `toml:"transition_delay"` // Duration of an animated transition (0: instant)
	SignalBuffer    int           `toml:"signal_buffer"`    // Depth of the PagePopped/ModalPopped channels
	Locator         *Locator      `toml:"-"`                // View factories (default: NewLocator())
}

// Call records one host call made by the navigation service.
type Call struct {
	Op       navstack.Op
	Title    string
	Contract string
	Index    int
	Reset    bool
	Animate  bool
	WithNav  bool
}

type navController struct {
	views []*View
}

type presentation struct {
	view *View
	nav  *navController // nil for a modal without navigation
}

// Host is an in-memory presentation host.
type Host struct {
	opts    Options
	locator *Locator

	mainQueue chan func()
	quit      chan struct{}
	wg        sync.WaitGroup
	closed    atomic.Bool

	pagePopped  *signalQueue[navstack.PoppedPage]
	modalPopped *signalQueue[struct{}]

	// Owned by the main loop.
	root   *navController
	modals []*presentation

	mu       sync.Mutex
	calls    []Call
	failures map[navstack.Op][]error

	transitions atomic.Int64
}

var _ navstack.Host = (*Host)(nil)

// New creates a host and starts its main loop. Call Close when done.
func New(opts Options) *Host {
	if opts.SignalBuffer <= 0 {
		opts.SignalBuffer = constants.DefaultSignalBuffer
	}
	if opts.Locator == nil {
		opts.Locator = NewLocator()
	}

	h := &Host{
		opts:        opts,
		locator:     opts.Locator,
		mainQueue:   make(chan func()),
		quit:        make(chan struct{}),
		pagePopped:  newSignalQueue[navstack.PoppedPage](opts.SignalBuffer),
		modalPopped: newSignalQueue[struct{}](opts.SignalBuffer),
		root:        &navController{},
		failures:    make(map[navstack.Op][]error),
	}

	h.wg.Add(3)
	go func() {
		defer h.wg.Done()
		h.run()
	}()
	go func() {
		defer h.wg.Done()
		h.pagePopped.run(h.quit)
	}()
	go func() {
		defer h.wg.Done()
		h.modalPopped.run(h.quit)
	}()

	return h
}

// Close stops the main loop and closes the signal channels.
func (h *Host) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(h.quit)
	h.wg.Wait()
	return nil
}

func (h *Host) run() {
	for {
		select {
		case fn := <-h.mainQueue:
			fn()
		case <-h.quit:
			return
		}
	}
}

// onMain runs fn on the main loop and waits for its result.
func (h *Host) onMain(fn func() error) error {
	result := make(chan error, 1)

	select {
	case h.mainQueue <- func() { result <- fn() }:
	case <-h.quit:
		return ErrClosed
	}

	select {
	case err := <-result:
		return err
	case <-h.quit:
		return ErrClosed
	}
}

// resolve builds a view off the main loop.
func (h *Host) resolve(ctx context.Context, page *navstack.Page, contract string) (*View, error) {
	type resolved struct {
		view *View
		err  error
	}

	ch := make(chan resolved, 1)
	go func() {
		view, err := h.locator.Resolve(page, contract)
		ch <- resolved{view: view, err: err}
	}()

	select {
	case r := <-ch:
		return r.view, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.quit:
		return nil, ErrClosed
	}
}

// transition waits out an animated transition. It is not cut short by the
// caller's context.
func (h *Host) transition(animate bool) {
	h.transitions.Inc()
	if !animate || h.opts.TransitionDelay <= 0 {
		return
	}

	timer := time.NewTimer(h.opts.TransitionDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-h.quit:
	}
}

// begin records a call and returns an injected failure, if one is queued.
func (h *Host) begin(call Call) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, call)
	if queued := h.failures[call.Op]; len(queued) > 0 {
		h.failures[call.Op] = queued[1:]
		return queued[0]
	}
	return nil
}

// currentNav returns the visual page stack page operations apply to.
// Must run on the main loop.
func (h *Host) currentNav() *navController {
	if len(h.modals) == 0 {
		return h.root
	}
	return h.modals[len(h.modals)-1].nav
}

// PushPage implements navstack.Host.
func (h *Host) PushPage(ctx context.Context, page *navstack.Page, contract string, resetStack, animate bool) error {
	if err := h.begin(Call{Op: navstack.OpPushPage, Title: page.String(), Contract: contract, Reset: resetStack, Animate: animate}); err != nil {
		return err
	}

	view, err := h.resolve(ctx, page, contract)
	if err != nil {
		return err
	}

	err = h.onMain(func() error {
		nav := h.currentNav()
		if nav == nil {
			return ErrNoNavigation
		}
		if resetStack {
			nav.views = nil
		}
		nav.views = append(nav.views, view)
		return nil
	})
	if err != nil {
		return err
	}

	h.transition(animate)
	return nil
}

// PopPage implements navstack.Host. It does not emit on PagePopped.
func (h *Host) PopPage(_ context.Context, animate bool) error {
	if err := h.begin(Call{Op: navstack.OpPopPage, Animate: animate}); err != nil {
		return err
	}

	err := h.onMain(func() error {
		nav := h.currentNav()
		if nav == nil {
			return ErrNoNavigation
		}
		if len(nav.views) == 0 {
			return ErrNothingToPop
		}
		nav.views = nav.views[:len(nav.views)-1]
		return nil
	})
	if err != nil {
		return err
	}

	h.transition(animate)
	return nil
}

// InsertPage implements navstack.Host.
func (h *Host) InsertPage(index int, page *navstack.Page, contract string) error {
	if err := h.begin(Call{Op: navstack.OpInsertPage, Title: page.String(), Contract: contract, Index: index}); err != nil {
		return err
	}

	view, err := h.resolve(context.Background(), page, contract)
	if err != nil {
		return err
	}

	return h.onMain(func() error {
		nav := h.currentNav()
		if nav == nil {
			return ErrNoNavigation
		}
		if index < 0 || index >= len(nav.views) {
			return fmt.Errorf("simhost: insert index %d out of range for %d pages", index, len(nav.views))
		}
		nav.views = append(nav.views, nil)
		copy(nav.views[index+1:], nav.views[index:])
		nav.views[index] = view
		return nil
	})
}

// RemovePage implements navstack.Host.
func (h *Host) RemovePage(index int) error {
	if err := h.begin(Call{Op: navstack.OpRemovePage, Index: index}); err != nil {
		return err
	}

	return h.onMain(func() error {
		nav := h.currentNav()
		if nav == nil {
			return ErrNoNavigation
		}
		if index < 0 || index >= len(nav.views) {
			return fmt.Errorf("simhost: remove index %d out of range for %d pages", index, len(nav.views))
		}
		nav.views = append(nav.views[:index], nav.views[index+1:]...)
		return nil
	})
}

// PushModal implements navstack.Host. Presenting a modal is always animated.
func (h *Host) PushModal(ctx context.Context, page *navstack.Page, contract string, withNavStack bool) error {
	if err := h.begin(Call{Op: navstack.OpPushModal, Title: page.String(), Contract: contract, Animate: true, WithNav: withNavStack}); err != nil {
		return err
	}

	view, err := h.resolve(ctx, page, contract)
	if err != nil {
		return err
	}

	err = h.onMain(func() error {
		p := &presentation{view: view}
		if withNavStack {
			p.nav = &navController{views: []*View{view}}
		}
		h.modals = append(h.modals, p)
		return nil
	})
	if err != nil {
		return err
	}

	h.transition(true)
	return nil
}

// PopModal implements navstack.Host. The dismissal is reported on
// ModalPopped once the transition has finished.
func (h *Host) PopModal(_ context.Context) error {
	if err := h.begin(Call{Op: navstack.OpPopModal, Animate: true}); err != nil {
		return err
	}

	err := h.onMain(func() error {
		if len(h.modals) == 0 {
			return ErrNothingToPop
		}
		h.modals = h.modals[:len(h.modals)-1]
		return nil
	})
	if err != nil {
		return err
	}

	h.transition(true)
	h.modalPopped.put(struct{}{})
	return nil
}

// PagePopped implements navstack.Host.
func (h *Host) PagePopped() <-chan navstack.PoppedPage {
	return h.pagePopped.out
}

// ModalPopped implements navstack.Host.
func (h *Host) ModalPopped() <-chan struct{} {
	return h.modalPopped.out
}

// Back simulates a user back gesture on the active page stack. Like a
// platform navigation controller it refuses to pop the root page.
func (h *Host) Back() error {
	return h.onMain(func() error {
		nav := h.currentNav()
		if nav == nil {
			return ErrNoNavigation
		}
		if len(nav.views) <= 1 {
			return ErrNothingToPop
		}
		top := nav.views[len(nav.views)-1]
		nav.views = nav.views[:len(nav.views)-1]
		h.pagePopped.put(navstack.PoppedPage{Page: top.Page})
		return nil
	})
}

// SwipeDismiss simulates the user dismissing the top modal.
func (h *Host) SwipeDismiss() error {
	return h.onMain(func() error {
		if len(h.modals) == 0 {
			return ErrNothingToPop
		}
		h.modals = h.modals[:len(h.modals)-1]
		h.modalPopped.put(struct{}{})
		return nil
	})
}

// FailNext makes the next call of op fail with err, before it changes any
// visual state. Failures queue up per operation.
func (h *Host) FailNext(op navstack.Op, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[op] = append(h.failures[op], err)
}

// Calls returns the host calls made so far, oldest first.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Call, len(h.calls))
	copy(out, h.calls)
	return out
}

// Transitions returns the number of completed transitions.
func (h *Host) Transitions() int64 {
	return h.transitions.Load()
}

// Pages returns the titles on the active visual page stack, or nil while a
// modal without navigation is on top.
func (h *Host) Pages() []string {
	var titles []string
	_ = h.onMain(func() error {
		if nav := h.currentNav(); nav != nil {
			titles = viewTitles(nav.views)
		}
		return nil
	})
	return titles
}

// RootPages returns the titles on the root visual page stack.
func (h *Host) RootPages() []string {
	var titles []string
	_ = h.onMain(func() error {
		titles = viewTitles(h.root.views)
		return nil
	})
	return titles
}

// Modals returns the titles of the presented modals, bottom first.
func (h *Host) Modals() []string {
	var titles []string
	_ = h.onMain(func() error {
		titles = make([]string, len(h.modals))
		for i, p := range h.modals {
			titles[i] = p.view.Title
		}
		return nil
	})
	return titles
}

func viewTitles(views []*View) []string {
	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}
	return titles
}
