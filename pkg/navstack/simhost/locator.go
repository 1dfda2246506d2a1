package simhost

import (
	"fmt"
	"sync"

	"github.com/BrandonKowalski/navstack/pkg/navstack"
	"github.com/google/uuid"
)

// View is what the simulator presents for a page.
type View struct {
	ID       string         // Unique per resolution
	Title    string         // Copied from the page
	Contract string         // Contract the view was resolved for
	Page     *navstack.Page // Page the view presents
	Data     any            // Set by the ViewFunc
}

// ViewFunc builds the view for a page. ID, Title, Contract and Page are
// filled in by the Locator afterwards.
type ViewFunc func(page *navstack.Page) (*View, error)

// Locator maps contracts to view factories.
// Contracts are registered once, and a fallback handles any contract that
// has no factory of its own.
type Locator struct {
	mu       sync.RWMutex
	views    map[string]ViewFunc
	fallback ViewFunc
}

// NewLocator creates a locator whose fallback builds an empty view for any
// contract.
func NewLocator() *Locator {
	return &Locator{
		views:    make(map[string]ViewFunc),
		fallback: DefaultView,
	}
}

// DefaultView builds an empty view.
func DefaultView(*navstack.Page) (*View, error) {
	return &View{}, nil
}

// Register adds a view factory for contract.
func (l *Locator) Register(contract string, fn ViewFunc) *Locator {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.views[contract] = fn
	return l
}

// Fallback sets the factory used for unregistered contracts.
// A nil fallback makes unregistered contracts an error.
func (l *Locator) Fallback(fn ViewFunc) *Locator {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fallback = fn
	return l
}

// Resolve builds the view for page under contract.
func (l *Locator) Resolve(page *navstack.Page, contract string) (*View, error) {
	if page == nil {
		return nil, fmt.Errorf("simhost: resolve: %w", navstack.ErrNullArgument)
	}

	l.mu.RLock()
	fn, ok := l.views[contract]
	if !ok {
		fn = l.fallback
	}
	l.mu.RUnlock()

	if fn == nil {
		return nil, fmt.Errorf("simhost: contract %q not registered", contract)
	}

	view, err := fn(page)
	if err != nil {
		return nil, fmt.Errorf("simhost: contract %q: %w", contract, err)
	}
	if view == nil {
		return nil, fmt.Errorf("simhost: contract %q: factory returned no view", contract)
	}

	view.ID = uuid.NewString()
	view.Title = page.Title
	view.Contract = contract
	view.Page = page
	return view, nil
}
