// Package storefront is the interactive shopping session: it browses the
// cached catalog and drives the cart engine from line-oriented commands.
package storefront

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	prompt      = "> "
	allCategory = "all"
)

const helpText = `commands:
  categories              list categories
  list [category|all]     list products, optionally switching category
  show <productID>        product details
  sort <mode>             default|price-asc|price-desc|date-desc|date-asc
  instock on|off          hide products without stock
  add <productID> <size>  add one unit to the cart
  inc <lineID>            increase a cart line by one
  dec <lineID>            decrease a cart line by one
  remove <lineID>         drop a cart line
  cart                    show the cart
  refresh                 reload products and categories
  help                    this text
  quit                    leave`

// Session owns the catalog view state and the cart for one shopper.
type Session struct {
	cache *catalog.Cache
	cart  *cart.Engine
	out   io.Writer
	logg  *logger.Logger

	sortMode    enums.SortMode
	inStockOnly bool
}

func NewSession(cache *catalog.Cache, engine *cart.Engine, out io.Writer, logg *logger.Logger) *Session {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Session{cache: cache, cart: engine, out: out, logg: logg}
}

// Cart exposes the session cart.
func (s *Session) Cart() *cart.Engine {
	return s.cart
}

// Run loads the catalog and then reads commands from in until EOF or quit.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.logg.Info(s.logg.WithField(ctx, "cart_policy", s.cart.Policy().String()), "storefront.session_started")
	if err := s.cache.Refresh(ctx); err != nil {
		s.printf("failed to load catalog: %v\n", err)
	}

	scanner := bufio.NewScanner(in)
	s.printf("%s", prompt)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if quit := s.Execute(ctx, scanner.Text()); quit {
			return nil
		}
		s.printf("%s", prompt)
	}
	return scanner.Err()
}

// Execute runs a single command line and reports whether the session should end.
func (s *Session) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		s.printf("%s\n", helpText)
	case "categories":
		s.categories()
	case "list":
		s.list(ctx, args)
	case "show":
		s.show(args)
	case "sort":
		s.sort(args)
	case "instock":
		s.inStock(args)
	case "add":
		s.add(ctx, args)
	case "inc":
		s.update(ctx, args, 1)
	case "dec":
		s.update(ctx, args, -1)
	case "remove":
		s.remove(args)
	case "cart":
		s.showCart()
	case "refresh":
		if err := s.cache.Refresh(ctx); err != nil {
			s.printf("refresh failed: %v\n", err)
			return false
		}
		s.printf("catalog refreshed\n")
	default:
		s.printf("unknown command %q, type help\n", cmd)
	}
	return false
}

func (s *Session) categories() {
	categories := s.cache.Categories()
	if len(categories) == 0 {
		s.printf("no categories loaded\n")
		return
	}
	current := s.cache.Category()
	s.printf("%s%s\n", marker(current == ""), catalog.CategoryLabel(""))
	for _, c := range categories {
		s.printf("%s%s\n", marker(current == c), catalog.Capitalize(c))
	}
}

func (s *Session) list(ctx context.Context, args []string) {
	if len(args) > 0 {
		category := strings.ToLower(args[0])
		if category == allCategory {
			category = ""
		}
		if err := s.cache.SelectCategory(ctx, category); err != nil {
			s.printf("failed to load products: %v\n", err)
			return
		}
	}

	products := s.visibleProducts()
	s.printf("%s (%d)\n", catalog.CategoryLabel(s.cache.Category()), len(products))
	if len(products) == 0 {
		s.printf("no products found\n")
		return
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, p := range products {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, catalog.FormatPrice(p.BasePrice.Decimal), p.Category, sizes(p))
	}
	_ = tw.Flush()
}

func (s *Session) visibleProducts() []catalog.Product {
	products := s.cache.Products()
	if s.inStockOnly {
		products = catalog.InStockOnly(products)
	}
	return catalog.Sort(products, s.sortMode)
}

func (s *Session) show(args []string) {
	p, ok := s.lookupProduct(args)
	if !ok {
		return
	}
	s.printf("#%d %s\n", p.ID, p.Name)
	if p.Brand != "" {
		s.printf("brand:    %s\n", p.Brand)
	}
	s.printf("price:    %s\n", catalog.FormatPrice(p.BasePrice.Decimal))
	s.printf("category: %s\n", catalog.Capitalize(p.Category))
	s.printf("added:    %s\n", catalog.FormatDate(p.CreatedAt))
	s.printf("image:    %s\n", p.ImageURL)
	if p.Description != "" {
		s.printf("%s\n", p.Description)
	}
	for _, v := range p.Variants {
		status := fmt.Sprintf("%d in stock", v.Stock)
		if v.Stock <= 0 {
			status = "out of stock"
		}
		s.printf("  size %-4s %s\n", v.Size, status)
	}
}

func (s *Session) sort(args []string) {
	if len(args) != 1 {
		s.printf("usage: sort <mode>\n")
		return
	}
	mode, err := enums.ParseSortMode(strings.ToLower(args[0]))
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	s.sortMode = mode
	s.printf("sort: %s\n", mode)
}

func (s *Session) inStock(args []string) {
	if len(args) != 1 {
		s.printf("usage: instock on|off\n")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		s.inStockOnly = true
	case "off":
		s.inStockOnly = false
	default:
		s.printf("usage: instock on|off\n")
		return
	}
	s.printf("in-stock filter: %s\n", args[0])
}

func (s *Session) add(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.printf("usage: add <productID> <size>\n")
		return
	}
	p, ok := s.lookupProduct(args[:1])
	if !ok {
		return
	}
	size := ""
	if len(args) > 1 {
		size = args[1]
	}
	res := s.cart.AddToCart(p, size)
	s.logRejected(ctx, "add", res)
	s.printf("%s\n", res.Message)
}

func (s *Session) update(ctx context.Context, args []string, delta int) {
	if len(args) != 1 {
		s.printf("usage: inc|dec <lineID>\n")
		return
	}
	if _, ok := s.cart.Line(args[0]); !ok {
		s.printf("no cart line %q\n", args[0])
		return
	}
	res := s.cart.UpdateQuantity(args[0], delta, s.cache.Products())
	s.logRejected(ctx, "update", res)
	if !res.OK {
		s.printf("%s\n", res.Message)
		return
	}
	s.showCart()
}

func (s *Session) logRejected(ctx context.Context, op string, res cart.Result) {
	if res.OK {
		return
	}
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"op": op, "reason": string(res.Reason)}), "cart.mutation_rejected")
}

func (s *Session) remove(args []string) {
	if len(args) != 1 {
		s.printf("usage: remove <lineID>\n")
		return
	}
	s.cart.RemoveFromCart(args[0])
	s.showCart()
}

func (s *Session) showCart() {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		s.printf("cart is empty\n")
		return
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\tx%d\t%s\n", l.ID, l.ProductName, l.Size, l.Quantity, catalog.FormatPrice(l.Subtotal()))
	}
	_ = tw.Flush()
	s.printf("items: %d  total: %s\n", s.cart.TotalItemCount(), catalog.FormatPrice(s.cart.TotalPrice()))
}

func (s *Session) lookupProduct(args []string) (catalog.Product, bool) {
	if len(args) == 0 {
		s.printf("missing product id\n")
		return catalog.Product{}, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		s.printf("invalid product id %q\n", args[0])
		return catalog.Product{}, false
	}
	p, ok := catalog.FindProduct(s.cache.Products(), uint(id))
	if !ok {
		s.printf("product %d not found\n", id)
		return catalog.Product{}, false
	}
	return p, true
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func sizes(p catalog.Product) string {
	parts := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		parts = append(parts, fmt.Sprintf("%s(%d)", v.Size, v.Stock))
	}
	return strings.Join(parts, " ")
}

func marker(selected bool) string {
	if selected {
		return "* "
	}
	return "  "
}
