package navstack

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BrandonKowalski/navstack/pkg/navstack/stack"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// Service keeps the page and modal stacks in step with a Host.
//
// Every mutating operation asks the host first and updates the model only
// after the host reports success, so a failed operation never leaves a
// partial change behind. Operations are serialized: the service never issues
// a host call while an earlier one is still in flight.
//
// Stack subscribers are called while the model is being updated. They may
// read the Service, but must not call its mutating methods synchronously.
type Service struct {
	host     Host
	logger   *slog.Logger
	lang     string
	onDesync func(error)

	// sem is held for the whole of a host call plus its model update.
	sem *semaphore.Weighted

	// mu is the single mutation point for the containers. The reconciliation
	// listener takes it as well.
	mu           sync.Mutex
	modalChanged chan struct{} // closed and replaced on every modal emission

	root       *stack.Stack[*Page]
	modals     *stack.Stack[*Modal]
	pages      *stack.Mirror[*Page]
	active     atomic.Pointer[ActiveStack]
	modalSubID string

	closed atomic.Bool
	quit   chan struct{}
	done   chan struct{}
}

// New creates a Service driving host and starts listening for host-originated
// pops. Call Close to stop the listener.
func New(host Host, opts Options) (*Service, error) {
	if host == nil {
		return nil, newStackError(OpNew, ErrNullArgument)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		host:     host,
		logger:   opts.logger(),
		lang:     opts.language(),
		onDesync: opts.OnDesync,
		sem:      semaphore.NewWeighted(1),
		root:     stack.New[*Page](),
		modals:   stack.New[*Modal](),
		pages:    stack.NewMirror[*Page](nil),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	s.modalSubID = s.modals.Subscribe(s.onModalsChanged)
	s.mu.Unlock()

	go s.listen(host.PagePopped(), host.ModalPopped())

	return s, nil
}

// Close stops the reconciliation listener and detaches the page stream.
// Operations started after Close fail with ErrClosed.
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.quit)
	<-s.done

	s.modals.Unsubscribe(s.modalSubID)
	s.pages.Close()
	return nil
}

// Host returns the host the service drives.
func (s *Service) Host() Host {
	return s.host
}

// PageStack streams the active page stack. It re-emits whenever the active
// stack changes or a different stack becomes active; while a bare modal is on
// top it reports an empty snapshot.
func (s *Service) PageStack() stack.Observable[*Page] {
	return s.pages
}

// RootStack streams the root page stack regardless of which stack is active.
func (s *Service) RootStack() stack.Observable[*Page] {
	return s.root
}

// ModalStack streams the modal stack.
func (s *Service) ModalStack() stack.Observable[*Modal] {
	return s.modals
}

// Active returns the page stack currently targeted by page operations.
func (s *Service) Active() ActiveStack {
	return *s.active.Load()
}

// PageState returns the state of the active page stack.
func (s *Service) PageState() StackState {
	return stateOf(s.Active().Len())
}

// ModalState returns the state of the modal stack.
func (s *Service) ModalState() StackState {
	return stateOf(s.modals.Len())
}

// PushPage pushes page onto the active page stack. With resetStack set the
// stack is replaced by page alone: the host pushes first, then every page
// below the new top is dropped from the model.
//
// PushPage blocks until the host has finished the transition.
func (s *Service) PushPage(ctx context.Context, page *Page, contract string, resetStack, animate bool) error {
	if err := page.Validate(); err != nil {
		return newStackError(OpPushPage, err)
	}
	if err := s.acquire(ctx, OpPushPage); err != nil {
		return err
	}
	defer s.sem.Release(1)

	active := s.Active()
	if active.Kind == NoStack {
		return newStackError(OpPushPage, ErrNoActiveStack)
	}

	if err := s.host.PushPage(ctx, page, contract, resetStack, animate); err != nil {
		return NewHostError(OpPushPage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if resetStack {
		active.stack.Reset(page)
	} else {
		active.stack.Push(page)
	}

	s.logger.Debug("added page to stack",
		"title", page.Title,
		"contract", contract,
		"reset", resetStack,
		"stack", active.Kind.String(),
		"depth", active.stack.Len())
	return nil
}

// InsertPage inserts page before the page at index in the active stack.
// index must be in [0, length). The host insert carries no animation, so the
// model is updated as soon as the host call returns.
func (s *Service) InsertPage(ctx context.Context, index int, page *Page, contract string) error {
	if err := page.Validate(); err != nil {
		return newStackError(OpInsertPage, err)
	}
	if err := s.acquire(ctx, OpInsertPage); err != nil {
		return err
	}
	defer s.sem.Release(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.Active()
	if active.Kind == NoStack {
		return newStackError(OpInsertPage, ErrNoActiveStack)
	}

	length := active.stack.Len()
	if index < 0 || index >= length {
		return indexError(OpInsertPage, index, length)
	}

	if err := s.host.InsertPage(index, page, contract); err != nil {
		return NewHostError(OpInsertPage, err)
	}
	if err := active.stack.Insert(index, page); err != nil {
		return fmt.Errorf("navstack: %s: %w", OpInsertPage, err)
	}

	s.logger.Debug("inserted page into stack",
		"title", page.Title,
		"contract", contract,
		"index", index,
		"stack", active.Kind.String())
	return nil
}

// PopToPage pops every page above index. Popping to the page that is already
// on top succeeds without calling the host.
func (s *Service) PopToPage(ctx context.Context, index int, animateLastPage bool) error {
	if err := s.acquire(ctx, OpPopToPage); err != nil {
		return err
	}
	defer s.sem.Release(1)

	s.mu.Lock()
	active := s.Active()
	if active.Kind == NoStack {
		s.mu.Unlock()
		return newStackError(OpPopToPage, ErrNoActiveStack)
	}

	length := active.stack.Len()
	if index < 0 || index >= length {
		s.mu.Unlock()
		return indexError(OpPopToPage, index, length)
	}

	count := length - 1 - index
	if count == 0 {
		s.mu.Unlock()
		return nil
	}

	return s.popPagesLocked(ctx, OpPopToPage, active, count, animateLastPage)
}

// PopPages pops count pages from the active stack. count must be in
// [1, length); the root page can't be popped.
//
// Pages below the top are removed from the host and the model straight away,
// without animation. Only the top page is popped with a transition, and the
// model drops it once the host reports that pop complete.
func (s *Service) PopPages(ctx context.Context, count int, animateLastPage bool) error {
	if err := s.acquire(ctx, OpPopPages); err != nil {
		return err
	}
	defer s.sem.Release(1)

	s.mu.Lock()
	active := s.Active()
	if active.Kind == NoStack {
		s.mu.Unlock()
		return newStackError(OpPopPages, ErrNoActiveStack)
	}

	length := active.stack.Len()
	if count <= 0 || count >= length {
		s.mu.Unlock()
		return popCountError(OpPopPages, count, length)
	}

	return s.popPagesLocked(ctx, OpPopPages, active, count, animateLastPage)
}

// popPagesLocked is called with s.mu held and the count already validated.
// It releases s.mu before waiting on the host.
func (s *Service) popPagesLocked(ctx context.Context, op Op, active ActiveStack, count int, animate bool) error {
	if count > 1 {
		if err := s.removeBelowTopLocked(active, count-1); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()

	if err := s.host.PopPage(ctx, animate); err != nil {
		return NewHostError(OpPopPage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	popped, err := active.stack.Pop()
	if err != nil {
		desyncErr := newStackError(op, ErrEmptyStackPop)
		s.reportDesync(desyncErr)
		return desyncErr
	}

	s.logger.Debug("removed page from stack",
		"title", popped.String(),
		"stack", active.Kind.String(),
		"depth", active.stack.Len())
	return nil
}

// removeBelowTopLocked removes n pages directly below the top, highest index
// first. If the host fails part way, the model drops exactly the pages the
// host removed so the two stay aligned.
func (s *Service) removeBelowTopLocked(active ActiveStack, n int) error {
	top := active.stack.Len() - 1

	removed := 0
	var hostErr error
	for i := top - 1; i >= top-n; i-- {
		if err := s.host.RemovePage(i); err != nil {
			hostErr = NewHostError(OpRemovePage, err)
			break
		}
		removed++
	}

	if removed > 0 {
		if err := active.stack.RemoveRange(top-removed, removed); err != nil {
			return fmt.Errorf("navstack: %s: %w", OpRemovePage, err)
		}
		s.logger.Debug("removed hidden pages from stack",
			"count", removed,
			"stack", active.Kind.String())
	}
	return hostErr
}

// PushModal presents modal and appends it to the modal stack once the host
// has finished. A navigation modal is presented with its own page stack
// rooted at its first page, and becomes the target of page operations. Any
// further pages it holds are then pushed onto the host's new stack without
// animation, so host and model start out with the same pages.
//
// Every page the modal carries must be valid; nothing reaches the host
// otherwise.
func (s *Service) PushModal(ctx context.Context, modal *Modal, contract string) error {
	if err := modal.validate(); err != nil {
		return newStackError(OpPushModal, err)
	}

	if err := s.acquire(ctx, OpPushModal); err != nil {
		return err
	}
	defer s.sem.Release(1)

	root := modal.Root()
	if err := s.host.PushModal(ctx, root, contract, modal.HasNavigation()); err != nil {
		return NewHostError(OpPushModal, err)
	}

	seedErr := s.seedNestedPages(ctx, modal, contract)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.modals.Push(modal)

	s.logger.Debug("added modal to stack",
		"title", modal.Title(),
		"contract", contract,
		"navigation", modal.HasNavigation(),
		"depth", s.modals.Len())
	return seedErr
}

// seedNestedPages pushes the pages above a navigation modal's root onto the
// host's new visual stack, without animation. If the host fails part way the
// modal keeps only the pages the host holds, and the failure is returned
// after the modal has been added to the model.
func (s *Service) seedNestedPages(ctx context.Context, modal *Modal, contract string) error {
	if !modal.HasNavigation() {
		return nil
	}

	pages := modal.pages.Snapshot()
	for i := 1; i < len(pages); i++ {
		if err := s.host.PushPage(ctx, pages[i], contract, false, false); err != nil {
			if rmErr := modal.pages.RemoveRange(i, len(pages)-i); rmErr != nil {
				return fmt.Errorf("navstack: %s: %w", OpPushModal, rmErr)
			}
			s.logger.Warn("host stopped seeding navigation modal",
				"title", modal.Title(),
				"seeded", i,
				"pages", len(pages),
				"error", err)
			return NewHostError(OpPushPage, err)
		}
	}
	return nil
}

// PopModal dismisses the top modal. The model drops it when the host reports
// the dismissal on its modal-popped signal; PopModal returns after that.
func (s *Service) PopModal(ctx context.Context) error {
	if err := s.acquire(ctx, OpPopModal); err != nil {
		return err
	}
	defer s.sem.Release(1)

	depth := s.modals.Len()
	if depth == 0 {
		return newStackError(OpPopModal, ErrEmptyStackPop)
	}

	if err := s.host.PopModal(ctx); err != nil {
		return NewHostError(OpPopModal, err)
	}

	return s.waitModalDepthBelow(ctx, depth)
}

func (s *Service) waitModalDepthBelow(ctx context.Context, depth int) error {
	for {
		s.mu.Lock()
		if s.modals.Len() < depth {
			s.mu.Unlock()
			return nil
		}
		changed := s.modalChanged
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return fmt.Errorf("navstack: %s: waiting for host dismissal: %w", OpPopModal, ctx.Err())
		case <-s.quit:
			return newStackError(OpPopModal, ErrClosed)
		}
	}
}

// onModalsChanged recomputes the active page stack on every modal stack
// emission. It runs with s.mu held.
func (s *Service) onModalsChanged(modals []*Modal) {
	active := selectActive(s.root, modals)
	s.active.Store(&active)

	if next := active.Pages(); s.pages.Source() != next {
		s.pages.Follow(next)
	}

	if s.modalChanged != nil {
		close(s.modalChanged)
	}
	s.modalChanged = make(chan struct{})

	s.logger.Debug("selected active page stack",
		"stack", active.Kind.String(),
		"modals", len(modals))
}

func (s *Service) acquire(ctx context.Context, op Op) error {
	if s.closed.Load() {
		return newStackError(op, ErrClosed)
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("navstack: %s: %w", op, err)
	}
	if s.closed.Load() {
		s.sem.Release(1)
		return newStackError(op, ErrClosed)
	}
	return nil
}

func (s *Service) reportDesync(err error) {
	s.logger.Error("host and navigation model diverged", "error", err)
	if s.onDesync != nil {
		s.onDesync(err)
	}
}
