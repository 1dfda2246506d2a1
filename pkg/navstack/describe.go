package navstack

import (
	"errors"

	"github.com/BrandonKowalski/navstack/pkg/navstack/i18n"
)

// Describe renders err as a user-facing message in lang (a BCP 47 tag).
// Unknown languages fall back to English. Describe(nil, ...) returns "".
func Describe(err error, lang string) string {
	if err == nil {
		return ""
	}

	tr, loadErr := i18n.Default()
	if loadErr != nil {
		return err.Error()
	}

	id, data := messageFor(err)
	return tr.Message(lang, id, data)
}

// Describe renders err in the Service's configured language.
func (s *Service) Describe(err error) string {
	return Describe(err, s.lang)
}

func messageFor(err error) (string, map[string]any) {
	var hostErr *HostError
	if errors.As(err, &hostErr) {
		cause := "unknown error"
		if hostErr.Err != nil {
			cause = hostErr.Err.Error()
		}
		return i18n.MsgHostFailure, map[string]any{"Op": hostErr.Op.String(), "Cause": cause}
	}

	var stackErr *StackError
	if errors.As(err, &stackErr) {
		data := map[string]any{"Index": stackErr.Index, "Count": stackErr.Count, "Len": stackErr.Len}
		switch {
		case errors.Is(err, ErrNullArgument):
			return i18n.MsgNullArgument, data
		case errors.Is(err, ErrIndexOutOfRange):
			return i18n.MsgIndexOutOfRange, data
		case errors.Is(err, ErrInvalidPopCount):
			return i18n.MsgInvalidPopCount, data
		case errors.Is(err, ErrNoActiveStack):
			return i18n.MsgNoActiveStack, data
		case errors.Is(err, ErrEmptyNavigationModal):
			return i18n.MsgEmptyNavigationModal, data
		case errors.Is(err, ErrEmptyStackPop):
			return i18n.MsgEmptyStackPop, data
		case errors.Is(err, ErrEmptyTitle):
			return i18n.MsgEmptyTitle, data
		case errors.Is(err, ErrClosed):
			return i18n.MsgClosed, data
		}
	}

	return i18n.MsgUnknown, map[string]any{"Cause": err.Error()}
}

// Heading returns the localized label for a stack listing: "pages", "modals",
// or the placeholder shown when no page stack is active.
func Heading(kind StackKind, modal bool, lang string) string {
	tr, err := i18n.Default()
	id := i18n.MsgPageStackHeading
	switch {
	case modal:
		id = i18n.MsgModalStackHeading
	case kind == NoStack:
		id = i18n.MsgNoActiveStackHeading
	}
	if err != nil {
		return id
	}
	return tr.Message(lang, id, nil)
}
