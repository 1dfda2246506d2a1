package navstack

import "github.com/BrandonKowalski/navstack/pkg/navstack/stack"

// Modal is an entry on the modal stack. It is either a bare modal presenting
// a single page, or a navigation modal that owns its own page stack.
//
// While a navigation modal is on top of the modal stack, page operations on
// the Service target its nested stack.
type Modal struct {
	page  *Page
	pages *stack.Stack[*Page]
}

// NewModal creates a bare modal presenting page. Page operations fail with
// ErrNoActiveStack while a bare modal is on top.
func NewModal(page *Page) *Modal {
	return &Modal{page: page}
}

// NewNavigationModal creates a modal with its own page stack, seeded with
// pages (bottom first). The first page is what the host presents.
func NewNavigationModal(pages ...*Page) *Modal {
	return &Modal{pages: stack.New(pages...)}
}

// HasNavigation reports whether the modal owns a page stack.
func (m *Modal) HasNavigation() bool {
	return m != nil && m.pages != nil
}

// Root returns the page the host presents for this modal: the page of a bare
// modal, or the bottom page of a navigation modal's stack. Returns nil for an
// empty navigation modal.
func (m *Modal) Root() *Page {
	if m == nil {
		return nil
	}
	if m.pages == nil {
		return m.page
	}
	root, _ := m.pages.At(0)
	return root
}

// Title returns the title of the root page.
func (m *Modal) Title() string {
	return m.Root().String()
}

// validate checks every page the modal carries. Pages are checked before the
// emptiness of a navigation modal so a nil page reports ErrNullArgument.
func (m *Modal) validate() error {
	if m == nil {
		return ErrNullArgument
	}
	if !m.HasNavigation() {
		return m.page.Validate()
	}

	pages := m.pages.Snapshot()
	for _, p := range pages {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if len(pages) == 0 {
		return ErrEmptyNavigationModal
	}
	return nil
}

// Pages returns the nested page stack, or nil for a bare modal.
func (m *Modal) Pages() stack.Observable[*Page] {
	if !m.HasNavigation() {
		return nil
	}
	return m.pages
}

func (m *Modal) String() string {
	if m == nil {
		return "<nil>"
	}
	return m.Title()
}

// ModalTitles returns the titles of modals, in order.
func ModalTitles(modals []*Modal) []string {
	out := make([]string, len(modals))
	for i, m := range modals {
		out[i] = m.String()
	}
	return out
}
