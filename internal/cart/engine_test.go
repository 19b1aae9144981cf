package cart

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

func testProduct(id uint, price string, sizes map[string]int) catalog.Product {
	p := catalog.Product{
		ID:        id,
		Name:      "product",
		BasePrice: types.MustPrice(price),
		ImageURL:  "https://img/p.jpg",
		Category:  "clothing",
	}
	variantID := id * 100
	for _, size := range []string{"XS", "S", "M", "L", "XL", "40", "41", "42"} {
		stock, ok := sizes[size]
		if !ok {
			continue
		}
		variantID++
		p.Variants = append(p.Variants, catalog.Variant{ID: variantID, ProductID: id, Size: size, Stock: stock})
	}
	return p
}

func fixedClock() func() time.Time {
	t := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestAddToCartPreconditions(t *testing.T) {
	e := NewEngine()
	p := testProduct(1, "100", map[string]int{"M": 2})

	res := e.AddToCart(p, "")
	if res.OK || res.Reason != ReasonSizeRequired || res.Message != "please select a size first" {
		t.Fatalf("unexpected result for empty size: %+v", res)
	}

	res = e.AddToCart(p, "XL")
	if res.OK || res.Reason != ReasonSizeUnavailable || res.Message != "selected size not available" {
		t.Fatalf("unexpected result for unknown size: %+v", res)
	}

	if e.Len() != 0 {
		t.Fatalf("failed adds must not mutate the cart, got %d lines", e.Len())
	}
}

func TestAddToCartStockCeiling(t *testing.T) {
	e := NewEngine(WithClock(fixedClock()))
	p := testProduct(1, "100", map[string]int{"M": 2})

	for i := 0; i < 2; i++ {
		if res := e.AddToCart(p, "M"); !res.OK || res.Message != MessageAdded {
			t.Fatalf("add %d failed: %+v", i+1, res)
		}
	}

	res := e.AddToCart(p, "M")
	if res.OK || res.Reason != ReasonInsufficientStock {
		t.Fatalf("expected insufficient stock, got %+v", res)
	}
	if res.Message != "insufficient stock, available: 2" {
		t.Fatalf("unexpected message %q", res.Message)
	}

	lines := e.Lines()
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected a single line with quantity 2, got %+v", lines)
	}
}

func TestAddToCartZeroStock(t *testing.T) {
	e := NewEngine()
	p := testProduct(3, "10", map[string]int{"S": 0})
	res := e.AddToCart(p, "S")
	if res.OK || res.Message != "insufficient stock, available: 0" {
		t.Fatalf("expected zero stock rejection, got %+v", res)
	}
}

func TestAddToCartSnapshotsAndIDs(t *testing.T) {
	e := NewEngine(WithClock(fixedClock()))
	p := testProduct(7, "49.90", map[string]int{"L": 3, "S": 1})

	e.AddToCart(p, "L")
	e.AddToCart(p, "S")

	lines := e.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected two lines for two sizes, got %d", len(lines))
	}
	first := lines[0]
	if !strings.HasPrefix(first.ID, "7-L-") {
		t.Fatalf("unexpected line id %q", first.ID)
	}
	if first.ID == lines[1].ID {
		t.Fatal("line ids must be unique")
	}
	if !first.Price.Equal(decimal.RequireFromString("49.90")) || first.ImageURL != "https://img/p.jpg" {
		t.Fatalf("snapshot not copied: %+v", first)
	}
	if first.MaxStock != 3 || first.VariantID == 0 || first.ProductName != "product" {
		t.Fatalf("unexpected line %+v", first)
	}

	// Later price changes do not touch existing lines.
	p.BasePrice = types.MustPrice("1")
	e.AddToCart(p, "L")
	got, _ := e.Line(first.ID)
	if got.Quantity != 2 || !got.Price.Equal(decimal.RequireFromString("49.9")) {
		t.Fatalf("expected price snapshot to survive, got %+v", got)
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	e := NewEngine()
	e.AddToCart(testProduct(1, "5", map[string]int{"M": 5}), "M")

	lines := e.Lines()
	lines[0].Quantity = 99
	if e.Lines()[0].Quantity != 1 {
		t.Fatal("mutating Lines() result must not affect the engine")
	}
}

func TestRemoveFromCart(t *testing.T) {
	e := NewEngine(WithClock(fixedClock()))
	p := testProduct(1, "10", map[string]int{"S": 5, "M": 5, "L": 5})
	e.AddToCart(p, "S")
	e.AddToCart(p, "M")
	e.AddToCart(p, "L")

	e.RemoveFromCart("does-not-exist")
	if e.Len() != 3 {
		t.Fatalf("removing unknown id must be a no-op, got %d lines", e.Len())
	}

	target := e.Lines()[1]
	e.RemoveFromCart(target.ID)

	lines := e.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected exactly one line removed, got %d", len(lines))
	}
	if lines[0].Size != "S" || lines[1].Size != "L" {
		t.Fatalf("wrong line removed or order lost: %+v", lines)
	}
}

func TestUpdateQuantityExample(t *testing.T) {
	e := NewEngine(WithClock(fixedClock()))
	p := testProduct(1, "100", map[string]int{"M": 2})
	catalogSnapshot := []catalog.Product{p}
	e.AddToCart(p, "M")
	e.AddToCart(p, "M")
	id := e.Lines()[0].ID

	res := e.UpdateQuantity(id, 1, catalogSnapshot)
	if res.OK || res.Reason != ReasonStockLimit || res.Message != "maximum stock limit reached: 2" {
		t.Fatalf("expected stock limit rejection, got %+v", res)
	}
	if got, _ := e.Line(id); got.Quantity != 2 {
		t.Fatalf("rejected update must leave quantity at 2, got %d", got.Quantity)
	}

	if res := e.UpdateQuantity(id, -1, catalogSnapshot); !res.OK {
		t.Fatalf("decrement should succeed: %+v", res)
	}
	if got, _ := e.Line(id); got.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", got.Quantity)
	}

	res = e.UpdateQuantity(id, -1, catalogSnapshot)
	if !res.OK || res.Message != "" {
		t.Fatalf("floor should be a silent no-op, got %+v", res)
	}
	if got, _ := e.Line(id); got.Quantity != 1 {
		t.Fatalf("floor must keep quantity at 1, got %d", got.Quantity)
	}
}

func TestUpdateQuantityUsesLiveStock(t *testing.T) {
	e := NewEngine()
	p := testProduct(1, "100", map[string]int{"M": 5})
	e.AddToCart(p, "M")
	id := e.Lines()[0].ID

	// Stock dropped since the line was added.
	live := testProduct(1, "100", map[string]int{"M": 1})
	res := e.UpdateQuantity(id, 1, []catalog.Product{live})
	if res.OK || res.Message != "maximum stock limit reached: 1" {
		t.Fatalf("expected live stock to win over snapshot, got %+v", res)
	}
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	e := NewEngine()
	if res := e.UpdateQuantity("missing", 1, nil); !res.OK {
		t.Fatalf("unknown line should be a no-op success, got %+v", res)
	}
}

func TestUpdateQuantityUnresolvedVariantPolicies(t *testing.T) {
	p := testProduct(1, "100", map[string]int{"M": 2})

	cases := []struct {
		policy  UnresolvedVariantPolicy
		wantOK  bool
		wantQty int
		reason  Reason
	}{
		{policy: AllowUnchecked, wantOK: true, wantQty: 4},
		{policy: CapAtSnapshot, wantOK: false, wantQty: 1, reason: ReasonStockLimit},
		{policy: Reject, wantOK: false, wantQty: 1, reason: ReasonVariantUnresolved},
	}

	for _, tc := range cases {
		t.Run(tc.policy.String(), func(t *testing.T) {
			e := NewEngine(WithUnresolvedVariantPolicy(tc.policy))
			e.AddToCart(p, "M")
			id := e.Lines()[0].ID

			res := e.UpdateQuantity(id, 3, nil)
			if res.OK != tc.wantOK || res.Reason != tc.reason {
				t.Fatalf("unexpected result %+v", res)
			}
			if got, _ := e.Line(id); got.Quantity != tc.wantQty {
				t.Fatalf("expected quantity %d, got %d", tc.wantQty, got.Quantity)
			}
		})
	}
}

func TestCapAtSnapshotAllowsWithinCeiling(t *testing.T) {
	e := NewEngine(WithUnresolvedVariantPolicy(CapAtSnapshot))
	e.AddToCart(testProduct(1, "100", map[string]int{"M": 3}), "M")
	id := e.Lines()[0].ID

	if res := e.UpdateQuantity(id, 2, nil); !res.OK {
		t.Fatalf("update within recorded ceiling should pass, got %+v", res)
	}
	if got, _ := e.Line(id); got.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", got.Quantity)
	}
}

func TestTotals(t *testing.T) {
	e := NewEngine(WithClock(fixedClock()))
	shoe := testProduct(1, "100", map[string]int{"42": 5})
	tee := testProduct(2, "19.99", map[string]int{"S": 5})

	e.AddToCart(shoe, "42")
	e.AddToCart(shoe, "42")
	e.AddToCart(tee, "S")

	if got := e.TotalItemCount(); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}
	if got := e.TotalPrice(); !got.Equal(decimal.RequireFromString("219.99")) {
		t.Fatalf("expected 219.99, got %s", got)
	}

	empty := NewEngine()
	if empty.TotalItemCount() != 0 || !empty.TotalPrice().IsZero() {
		t.Fatal("empty cart totals should be zero")
	}
}

// TestRandomOperationsKeepInvariants drives the engine with a seeded random
// sequence and checks the line invariants after every step.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := []catalog.Product{
		testProduct(1, "10", map[string]int{"S": 3, "M": 0, "L": 5}),
		testProduct(2, "25.5", map[string]int{"40": 2, "41": 4}),
	}
	e := NewEngine(WithClock(fixedClock()))

	for step := 0; step < 500; step++ {
		switch rng.Intn(4) {
		case 0, 1:
			p := products[rng.Intn(len(products))]
			v := p.Variants[rng.Intn(len(p.Variants))]
			e.AddToCart(p, v.Size)
		case 2:
			lines := e.Lines()
			if len(lines) == 0 {
				continue
			}
			l := lines[rng.Intn(len(lines))]
			e.UpdateQuantity(l.ID, rng.Intn(5)-2, products)
		case 3:
			if rng.Intn(10) == 0 {
				lines := e.Lines()
				if len(lines) > 0 {
					e.RemoveFromCart(lines[rng.Intn(len(lines))].ID)
				}
			}
		}

		seen := map[string]bool{}
		sum := 0
		for _, l := range e.Lines() {
			key := l.Size
			if seen[key] {
				t.Fatalf("step %d: duplicate line for size %s", step, key)
			}
			seen[key] = true
			v, ok := catalog.FindVariant(products, l.VariantID)
			if !ok {
				t.Fatalf("step %d: line references unknown variant %d", step, l.VariantID)
			}
			if l.Quantity < 1 || l.Quantity > v.Stock {
				t.Fatalf("step %d: quantity %d outside [1,%d]", step, l.Quantity, v.Stock)
			}
			sum += l.Quantity
		}
		if sum != e.TotalItemCount() {
			t.Fatalf("step %d: total %d != sum %d", step, e.TotalItemCount(), sum)
		}
	}
}

func TestRepeatedAddsCountSuccesses(t *testing.T) {
	e := NewEngine()
	p := testProduct(1, "10", map[string]int{"L": 4})
	ok := 0
	for i := 0; i < 10; i++ {
		if e.AddToCart(p, "L").OK {
			ok++
		}
	}
	if ok != 4 {
		t.Fatalf("expected 4 successful adds, got %d", ok)
	}
	lines := e.Lines()
	if len(lines) != 1 || lines[0].Quantity != ok {
		t.Fatalf("expected one line with quantity %d, got %+v", ok, lines)
	}
}
