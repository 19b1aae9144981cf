package storefront

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/rs/zerolog"
)

type stubSource struct {
	products map[string][]catalog.Product
	err      error
}

func (s *stubSource) Products(_ context.Context, category string) ([]catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products[category], nil
}

func (s *stubSource) Categories(context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []string{"shoes", "clothing"}, nil
}

func newStubSource() *stubSource {
	shoe := catalog.Product{
		ID:        1,
		Name:      "Trail Runner",
		BasePrice: types.MustPrice("100"),
		Category:  "shoes",
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Variants:  []catalog.Variant{{ID: 11, ProductID: 1, Size: "42", Stock: 2}},
	}
	hoodie := catalog.Product{
		ID:        2,
		Name:      "Basic Hoodie",
		BasePrice: types.MustPrice("40.5"),
		Category:  "clothing",
		CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Variants:  []catalog.Variant{{ID: 21, ProductID: 2, Size: "M", Stock: 0}},
	}
	return &stubSource{products: map[string][]catalog.Product{
		"":         {hoodie, shoe},
		"shoes":    {shoe},
		"clothing": {hoodie},
	}}
}

func newTestSession(source catalog.Source) (*Session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	clock := time.Unix(1_700_000_000, 0)
	engine := cart.NewEngine(
		cart.WithUnresolvedVariantPolicy(cart.CapAtSnapshot),
		cart.WithClock(func() time.Time { clock = clock.Add(time.Second); return clock }),
	)
	return NewSession(catalog.NewCache(source, nil), engine, out, nil), out
}

func TestSessionRunScript(t *testing.T) {
	session, out := newTestSession(newStubSource())
	script := strings.Join([]string{
		"list",
		"add 1 42",
		"add 1 42",
		"add 1 42",
		"add 1",
		"add 1 44",
		"cart",
		"quit",
		"list",
	}, "\n")

	if err := session.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"All (2)",
		"Trail Runner",
		"product added to cart",
		"insufficient stock, available: 2",
		"please select a size first",
		"selected size not available",
		"items: 2  total: 200.00 TL",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "All (2)") != 1 {
		t.Fatalf("commands after quit must not run:\n%s", got)
	}
	if n := session.Cart().TotalItemCount(); n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}
}

func TestSessionQuantityCommands(t *testing.T) {
	session, out := newTestSession(newStubSource())
	ctx := context.Background()
	if err := session.cache.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	session.Execute(ctx, "add 1 42")
	session.Execute(ctx, "add 1 42")
	lineID := session.Cart().Lines()[0].ID

	out.Reset()
	session.Execute(ctx, "inc "+lineID)
	if !strings.Contains(out.String(), "maximum stock limit reached: 2") {
		t.Fatalf("expected stock limit message, got %q", out.String())
	}

	session.Execute(ctx, "dec "+lineID)
	session.Execute(ctx, "dec "+lineID)
	if l, _ := session.Cart().Line(lineID); l.Quantity != 1 {
		t.Fatalf("expected quantity floor of 1, got %d", l.Quantity)
	}

	out.Reset()
	session.Execute(ctx, "inc missing")
	if !strings.Contains(out.String(), `no cart line "missing"`) {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	session.Execute(ctx, "remove "+lineID)
	if session.Cart().Len() != 0 || !strings.Contains(out.String(), "cart is empty") {
		t.Fatalf("expected empty cart, output %q", out.String())
	}
}

func TestSessionListFiltersAndSorts(t *testing.T) {
	session, out := newTestSession(newStubSource())
	ctx := context.Background()
	if err := session.cache.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	session.Execute(ctx, "instock on")
	out.Reset()
	session.Execute(ctx, "list")
	if strings.Contains(out.String(), "Basic Hoodie") {
		t.Fatalf("out of stock product should be hidden:\n%s", out.String())
	}

	session.Execute(ctx, "instock off")
	session.Execute(ctx, "sort price-asc")
	out.Reset()
	session.Execute(ctx, "list")
	listing := out.String()
	if strings.Index(listing, "Basic Hoodie") > strings.Index(listing, "Trail Runner") {
		t.Fatalf("expected cheaper product first:\n%s", listing)
	}

	out.Reset()
	session.Execute(ctx, "list shoes")
	if !strings.Contains(out.String(), "Shoes (1)") || session.cache.Category() != "shoes" {
		t.Fatalf("unexpected category listing:\n%s", out.String())
	}

	out.Reset()
	session.Execute(ctx, "categories")
	if !strings.Contains(out.String(), "* Shoes") {
		t.Fatalf("selected category should be marked:\n%s", out.String())
	}

	out.Reset()
	session.Execute(ctx, "sort cheapest")
	if !strings.Contains(out.String(), "invalid sort mode") {
		t.Fatalf("expected invalid sort error, got %q", out.String())
	}
}

func TestSessionShowAndUnknownCommands(t *testing.T) {
	session, out := newTestSession(newStubSource())
	ctx := context.Background()
	if err := session.cache.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	session.Execute(ctx, "show 1")
	got := out.String()
	if !strings.Contains(got, "100.00 TL") || !strings.Contains(got, "size 42   2 in stock") || !strings.Contains(got, "March 1, 2026") {
		t.Fatalf("unexpected details:\n%s", got)
	}

	out.Reset()
	session.Execute(ctx, "show abc")
	if !strings.Contains(out.String(), `invalid product id "abc"`) {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	session.Execute(ctx, "show 99")
	if !strings.Contains(out.String(), "product 99 not found") {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if quit := session.Execute(ctx, "dance"); quit {
		t.Fatal("unknown command must not quit")
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSessionReportsFetchFailure(t *testing.T) {
	source := newStubSource()
	source.err = errors.New("connection refused")
	session, out := newTestSession(source)

	if err := session.Run(context.Background(), strings.NewReader("refresh\nquit\n")); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "failed to load catalog: connection refused") || !strings.Contains(got, "refresh failed") {
		t.Fatalf("expected failure messages:\n%s", got)
	}
	if session.cache.Loading() {
		t.Fatal("loading flag should be cleared")
	}
}

func TestSessionLogsPolicyAndRejectedMutations(t *testing.T) {
	logs := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "storefront", Level: zerolog.DebugLevel, Output: logs})
	engine := cart.NewEngine(cart.WithUnresolvedVariantPolicy(cart.CapAtSnapshot))
	session := NewSession(catalog.NewCache(newStubSource(), nil), engine, &bytes.Buffer{}, logg)

	if err := session.Run(context.Background(), strings.NewReader("add 1 44\nquit\n")); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := logs.String()
	for _, want := range []string{
		`"cart_policy":"cap-at-snapshot"`,
		`"message":"storefront.session_started"`,
		`"reason":"size_unavailable"`,
		`"message":"cart.mutation_rejected"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected log output to contain %s, got:\n%s", want, got)
		}
	}
}
