package navstack

import "strings"

// Page is a navigable unit: an application payload plus the title the host
// uses to label it.
//
// Pages are compared by pointer. The same *Page may be pushed more than once
// and will then occupy several positions in a stack.
type Page struct {
	Title   string // Display title, required
	Payload any    // Application-specific data (usually a view model)
}

// NewPage creates a page with the given title and payload.
func NewPage(title string, payload any) *Page {
	return &Page{Title: title, Payload: payload}
}

// Validate reports ErrNullArgument for a nil page and ErrEmptyTitle for a
// page whose title is blank.
func (p *Page) Validate() error {
	if p == nil {
		return ErrNullArgument
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

func (p *Page) String() string {
	if p == nil {
		return "<nil>"
	}
	return p.Title
}

// Titles returns the titles of pages, in order.
func Titles(pages []*Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.String()
	}
	return out
}
