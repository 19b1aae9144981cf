// Package cart holds the session cart: stock-aware add, update and remove over
// an ordered list of lines. The engine never talks to the server; stock comes
// from the catalog snapshot handed to each call.
package cart

import (
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Line is one product+size entry in the cart.
type Line struct {
	ID          string
	ProductID   uint
	ProductName string
	Price       decimal.Decimal
	ImageURL    string
	Size        string
	Quantity    int
	VariantID   uint
	// MaxStock is the variant stock observed when the line was last added to.
	MaxStock int
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Reason string

const (
	ReasonNone              Reason = ""
	ReasonSizeRequired      Reason = "size_required"
	ReasonSizeUnavailable   Reason = "size_unavailable"
	ReasonInsufficientStock Reason = "insufficient_stock"
	ReasonStockLimit        Reason = "stock_limit"
	ReasonVariantUnresolved Reason = "variant_unresolved"
)

const MessageAdded = "product added to cart"

// Result reports the outcome of a mutation. Failures leave the cart untouched.
type Result struct {
	OK      bool
	Reason  Reason
	Message string
}

func succeeded(message string) Result {
	return Result{OK: true, Message: message}
}

func failed(reason Reason, format string, args ...any) Result {
	return Result{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// UnresolvedVariantPolicy decides what UpdateQuantity does when the line's
// variant is missing from the catalog snapshot.
type UnresolvedVariantPolicy int

const (
	// AllowUnchecked applies the update without a ceiling.
	AllowUnchecked UnresolvedVariantPolicy = iota
	// CapAtSnapshot uses the stock recorded on the line as the ceiling.
	CapAtSnapshot
	// Reject refuses every update it cannot check.
	Reject
)

func (p UnresolvedVariantPolicy) String() string {
	switch p {
	case AllowUnchecked:
		return "allow-unchecked"
	case CapAtSnapshot:
		return "cap-at-snapshot"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Engine owns the lines of one session. It is not safe for concurrent use.
type Engine struct {
	lines  []Line
	now    func() time.Time
	policy UnresolvedVariantPolicy
}

type Option func(*Engine)

// WithClock overrides the clock used to derive line ids.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithUnresolvedVariantPolicy(policy UnresolvedVariantPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, policy: AllowUnchecked}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured unresolved-variant policy.
func (e *Engine) Policy() UnresolvedVariantPolicy {
	return e.policy
}

// AddToCart adds one unit of product in size, merging into an existing line
// for the same product and size.
func (e *Engine) AddToCart(product catalog.Product, size string) Result {
	if size == "" {
		return failed(ReasonSizeRequired, "please select a size first")
	}

	variant, ok := product.VariantBySize(size)
	if !ok {
		return failed(ReasonSizeUnavailable, "selected size not available")
	}

	idx := e.indexOfVariant(product.ID, size)
	currentQty := 0
	if idx >= 0 {
		currentQty = e.lines[idx].Quantity
	}
	if currentQty+1 > variant.Stock {
		return failed(ReasonInsufficientStock, "insufficient stock, available: %d", variant.Stock)
	}

	next := make([]Line, len(e.lines), len(e.lines)+1)
	copy(next, e.lines)
	if idx >= 0 {
		line := next[idx]
		line.Quantity++
		line.MaxStock = variant.Stock
		next[idx] = line
	} else {
		next = append(next, Line{
			ID:          fmt.Sprintf("%d-%s-%d", product.ID, size, e.now().UnixNano()),
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.BasePrice.Decimal,
			ImageURL:    product.ImageURL,
			Size:        size,
			Quantity:    1,
			VariantID:   variant.ID,
			MaxStock:    variant.Stock,
		})
	}
	e.lines = next
	return succeeded(MessageAdded)
}

// RemoveFromCart drops the line with lineID. Unknown ids are ignored.
func (e *Engine) RemoveFromCart(lineID string) {
	idx := e.indexOf(lineID)
	if idx < 0 {
		return
	}
	next := make([]Line, 0, len(e.lines)-1)
	next = append(next, e.lines[:idx]...)
	next = append(next, e.lines[idx+1:]...)
	e.lines = next
}

// UpdateQuantity moves a line's quantity by delta, checking the live stock of
// its variant in products. A result below one is ignored, not reported.
func (e *Engine) UpdateQuantity(lineID string, delta int, products []catalog.Product) Result {
	idx := e.indexOf(lineID)
	if idx < 0 {
		return succeeded("")
	}

	line := e.lines[idx]
	newQty := line.Quantity + delta
	if newQty < 1 {
		return succeeded("")
	}

	if variant, ok := catalog.FindVariant(products, line.VariantID); ok {
		if newQty > variant.Stock {
			return failed(ReasonStockLimit, "maximum stock limit reached: %d", variant.Stock)
		}
	} else {
		switch e.policy {
		case CapAtSnapshot:
			if newQty > line.MaxStock {
				return failed(ReasonStockLimit, "maximum stock limit reached: %d", line.MaxStock)
			}
		case Reject:
			return failed(ReasonVariantUnresolved, "product is no longer available")
		}
	}

	next := make([]Line, len(e.lines))
	copy(next, e.lines)
	line.Quantity = newQty
	next[idx] = line
	e.lines = next
	return succeeded("")
}

// TotalItemCount is the sum of all line quantities.
func (e *Engine) TotalItemCount() int {
	total := 0
	for _, l := range e.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity over all lines.
func (e *Engine) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart in insertion order.
func (e *Engine) Lines() []Line {
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// Line looks up a single line by id.
func (e *Engine) Line(lineID string) (Line, bool) {
	idx := e.indexOf(lineID)
	if idx < 0 {
		return Line{}, false
	}
	return e.lines[idx], true
}

func (e *Engine) Len() int {
	return len(e.lines)
}

func (e *Engine) indexOf(lineID string) int {
	for i, l := range e.lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}

func (e *Engine) indexOfVariant(productID uint, size string) int {
	for i, l := range e.lines {
		if l.ProductID == productID && l.Size == size {
			return i
		}
	}
	return -1
}
