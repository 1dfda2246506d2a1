package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BrandonKowalski/navstack/pkg/navstack"
	"github.com/BrandonKowalski/navstack/pkg/navstack/constants"
	"github.com/BrandonKowalski/navstack/pkg/navstack/simhost"
	"github.com/BurntSushi/toml"
)

// Script is a navigation scenario loaded from TOML.
//
//	[host]
//	transition_delay = "100ms"
//
//	[[step]]
//	op = "push"
//	title = "Home"
type Script struct {
	Host  simhost.Options `toml:"host"`
	Steps []Step          `toml:"step"`
}

// Step is one navigation action.
type Step struct {
	Op       string   `toml:"op"`       // push, insert, pop, pop-to, push-modal, push-nav-modal, pop-modal, back, dismiss
	Title    string   `toml:"title"`    // Page title for push, insert and push-modal
	Pages    []string `toml:"pages"`    // Page titles for push-nav-modal, bottom first
	Contract string   `toml:"contract"` // View contract
	Index    int      `toml:"index"`    // insert, pop-to
	Count    int      `toml:"count"`    // pop (default: 1)
	Reset    bool     `toml:"reset"`    // push: replace the stack
	Animate  *bool    `toml:"animate"`  // default: true
}

var errUnknownOp = errors.New("unknown step op")

// reconcileTimeout bounds the wait for a gesture to reach the model.
const reconcileTimeout = 2 * time.Second

// ParseScript decodes a script and rejects unknown keys and ops. Animated
// transitions take constants.DefaultTransitionDelay unless the script sets
// host.transition_delay.
func ParseScript(data string) (*Script, error) {
	script := Script{
		Host: simhost.Options{TransitionDelay: constants.DefaultTransitionDelay},
	}
	meta, err := toml.Decode(data, &script)
	if err != nil {
		return nil, fmt.Errorf("navsim: parse script: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("navsim: parse script: unknown key %q", undecoded[0].String())
	}

	for i, step := range script.Steps {
		if !knownOp(step.Op) {
			return nil, fmt.Errorf("navsim: step %d: %w %q", i+1, errUnknownOp, step.Op)
		}
	}
	return &script, nil
}

func knownOp(op string) bool {
	switch op {
	case "push", "insert", "pop", "pop-to", "push-modal", "push-nav-modal", "pop-modal", "back", "dismiss":
		return true
	}
	return false
}

func (s Step) animate() bool {
	return s.Animate == nil || *s.Animate
}

func (s Step) count() int {
	if s.Count == 0 {
		return 1
	}
	return s.Count
}

func (s Step) String() string {
	switch s.Op {
	case "push", "push-modal":
		return fmt.Sprintf("%s %s", s.Op, s.Title)
	case "insert":
		return fmt.Sprintf("insert %s at %d", s.Title, s.Index)
	case "push-nav-modal":
		return fmt.Sprintf("push-nav-modal %s", strings.Join(s.Pages, ", "))
	case "pop":
		return fmt.Sprintf("pop %d", s.count())
	case "pop-to":
		return fmt.Sprintf("pop-to %d", s.Index)
	default:
		return s.Op
	}
}

// Runner applies script steps to a Service and reports the stacks.
type Runner struct {
	nav  *navstack.Service
	host *simhost.Host
	lang string
	out  io.Writer
}

// NewRunner creates a runner. The caller owns nav and host.
func NewRunner(nav *navstack.Service, host *simhost.Host, lang string, out io.Writer) *Runner {
	return &Runner{nav: nav, host: host, lang: lang, out: out}
}

// Run applies every step in order. A failing step is reported and the run
// continues. It returns the number of failed steps.
func (r *Runner) Run(ctx context.Context, steps []Step) int {
	failed := 0
	for i, step := range steps {
		err := r.Apply(ctx, step)
		if err != nil {
			failed++
		}
		r.report(i+1, step, err)
	}
	return failed
}

// Apply performs a single step.
func (r *Runner) Apply(ctx context.Context, step Step) error {
	switch step.Op {
	case "push":
		return r.nav.PushPage(ctx, navstack.NewPage(step.Title, nil), step.Contract, step.Reset, step.animate())
	case "insert":
		return r.nav.InsertPage(ctx, step.Index, navstack.NewPage(step.Title, nil), step.Contract)
	case "pop":
		return r.nav.PopPages(ctx, step.count(), step.animate())
	case "pop-to":
		return r.nav.PopToPage(ctx, step.Index, step.animate())
	case "push-modal":
		return r.nav.PushModal(ctx, navstack.NewModal(navstack.NewPage(step.Title, nil)), step.Contract)
	case "push-nav-modal":
		pages := make([]*navstack.Page, len(step.Pages))
		for i, title := range step.Pages {
			pages[i] = navstack.NewPage(title, nil)
		}
		return r.nav.PushModal(ctx, navstack.NewNavigationModal(pages...), step.Contract)
	case "pop-modal":
		return r.nav.PopModal(ctx)
	case "back":
		return r.back(ctx)
	case "dismiss":
		return r.dismiss(ctx)
	default:
		return fmt.Errorf("navsim: %w %q", errUnknownOp, step.Op)
	}
}

// back performs a user back gesture and waits for the model to follow.
func (r *Runner) back(ctx context.Context) error {
	before := r.nav.PageStack().Len()
	if err := r.host.Back(); err != nil {
		return err
	}
	return waitFor(ctx, func() bool { return r.nav.PageStack().Len() < before })
}

// dismiss swipes away the top modal and waits for the model to follow.
func (r *Runner) dismiss(ctx context.Context) error {
	before := r.nav.ModalStack().Len()
	if err := r.host.SwipeDismiss(); err != nil {
		return err
	}
	return waitFor(ctx, func() bool { return r.nav.ModalStack().Len() < before })
}

func waitFor(ctx context.Context, done func() bool) error {
	ctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for !done() {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("navsim: waiting for reconciliation: %w", ctx.Err())
		}
	}
	return nil
}

func (r *Runner) report(n int, step Step, err error) {
	fmt.Fprintf(r.out, "%d. %s\n", n, step)
	if err != nil {
		fmt.Fprintf(r.out, "   ! %s\n", navstack.Describe(err, r.lang))
	}

	active := r.nav.Active()
	if active.Kind == navstack.NoStack {
		fmt.Fprintf(r.out, "   %s\n", navstack.Heading(active.Kind, false, r.lang))
	} else {
		fmt.Fprintf(r.out, "   %s: %v\n", navstack.Heading(active.Kind, false, r.lang), navstack.Titles(active.Snapshot()))
	}
	fmt.Fprintf(r.out, "   %s: %v\n", navstack.Heading(active.Kind, true, r.lang), navstack.ModalTitles(r.nav.ModalStack().Snapshot()))
}
