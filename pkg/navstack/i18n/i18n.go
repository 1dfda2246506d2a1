// Package i18n renders navstack's user-facing messages in the caller's language.
//
// Messages live in TOML files embedded from locales/ and are loaded into a
// go-i18n bundle with English as the fallback language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

// Message IDs shared with the locale files.
const (
	MsgNullArgument         = "NullArgument"
	MsgIndexOutOfRange      = "IndexOutOfRange"
	MsgInvalidPopCount      = "InvalidPopCount"
	MsgNoActiveStack        = "NoActiveStack"
	MsgEmptyNavigationModal = "EmptyNavigationModal"
	MsgEmptyStackPop        = "EmptyStackPop"
	MsgEmptyTitle           = "EmptyTitle"
	MsgClosed               = "Closed"
	MsgHostFailure          = "HostFailure"
	MsgUnknown              = "Unknown"
	MsgPageStackHeading     = "PageStackHeading"
	MsgModalStackHeading    = "ModalStackHeading"
	MsgNoActiveStackHeading = "NoActiveStackHeading"
)

// Translator looks up messages in an embedded bundle.
type Translator struct {
	bundle *goi18n.Bundle

	mu         sync.Mutex
	localizers map[string]*goi18n.Localizer
}

// New loads every embedded locale file.
func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.toml")
	if err != nil {
		return nil, fmt.Errorf("i18n: list locales: %w", err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", path.Base(file), err)
		}
	}

	return &Translator{
		bundle:     bundle,
		localizers: make(map[string]*goi18n.Localizer),
	}, nil
}

var (
	defaultOnce       sync.Once
	defaultTranslator *Translator
	defaultErr        error
)

// Default returns a process-wide Translator, loading it on first use.
func Default() (*Translator, error) {
	defaultOnce.Do(func() {
		defaultTranslator, defaultErr = New()
	})
	return defaultTranslator, defaultErr
}

// Languages returns the tags the bundle has messages for.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

// Message renders message id in lang, falling back to English. data fills the
// message template. If the id is unknown in every language the id itself is
// returned.
func (t *Translator) Message(lang, id string, data map[string]any) string {
	msg, err := t.localizer(lang).Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil && msg == "" {
		return id
	}
	return msg
}

func (t *Translator) localizer(lang string) *goi18n.Localizer {
	t.mu.Lock()
	defer t.mu.Unlock()

	if loc, ok := t.localizers[lang]; ok {
		return loc
	}
	loc := goi18n.NewLocalizer(t.bundle, lang, language.English.String())
	t.localizers[lang] = loc
	return loc
}

// ParseLanguage validates a BCP 47 language tag.
func ParseLanguage(lang string) (language.Tag, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und, fmt.Errorf("i18n: invalid language %q: %w", lang, err)
	}
	return tag, nil
}
