package navstack_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/BrandonKowalski/navstack/pkg/navstack"
	"github.com/BrandonKowalski/navstack/pkg/navstack/simhost"
)

// Example walks through page and modal navigation against the in-memory host.
func Example() {
	host := simhost.New(simhost.Options{})
	defer host.Close()

	nav, err := navstack.New(host, navstack.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer nav.Close()

	ctx := context.Background()
	_ = nav.PushPage(ctx, navstack.NewPage("Home", nil), "", false, true)
	_ = nav.PushPage(ctx, navstack.NewPage("Library", nil), "", false, true)
	_ = nav.PushPage(ctx, navstack.NewPage("Album", nil), "", false, true)
	fmt.Println(navstack.Titles(nav.PageStack().Snapshot()))

	_ = nav.PopPages(ctx, 2, true)
	fmt.Println(navstack.Titles(nav.PageStack().Snapshot()))

	_ = nav.PushModal(ctx, navstack.NewModal(navstack.NewPage("Confirm", nil)), "")
	err = nav.PushPage(ctx, navstack.NewPage("Settings", nil), "", false, true)
	fmt.Println(nav.Describe(err))

	_ = nav.PopModal(ctx)
	_ = nav.PushPage(ctx, navstack.NewPage("Settings", nil), "", false, true)
	fmt.Println(navstack.Titles(nav.PageStack().Snapshot()))

	// Output:
	// [Home Library Album]
	// [Home]
	// The open dialog has no pages to navigate.
	// [Home Settings]
}

// Example_navigationModal shows page operations following a modal's own stack.
func Example_navigationModal() {
	host := simhost.New(simhost.Options{})
	defer host.Close()

	nav, _ := navstack.New(host, navstack.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer nav.Close()

	ctx := context.Background()
	_ = nav.PushPage(ctx, navstack.NewPage("Home", nil), "", false, true)
	_ = nav.PushModal(ctx, navstack.NewNavigationModal(navstack.NewPage("Wizard", nil)), "")
	_ = nav.PushPage(ctx, navstack.NewPage("Step 2", nil), "", false, true)

	fmt.Println(nav.Active().Kind, navstack.Titles(nav.PageStack().Snapshot()))
	fmt.Println(navstack.Titles(nav.RootStack().Snapshot()))

	_ = nav.PopModal(ctx)
	fmt.Println(nav.Active().Kind, navstack.Titles(nav.PageStack().Snapshot()))

	// Output:
	// nested [Wizard Step 2]
	// [Home]
	// root [Home]
}
