package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"autoparts-store/internal/admin"
	"autoparts-store/internal/cart"
	"autoparts-store/internal/catalog"
	"autoparts-store/internal/client"
	"autoparts-store/internal/domain"
	"autoparts-store/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

const help = `commands:
  categories                     list categories
  products                       list products for the selected category
  select <category-id|all>       change the category filter
  add <product-id> [qty]         add a product to the cart
  cart                           show the cart
  qty <product-id> <qty>         change a cart quantity (0 removes)
  remove <product-id>            remove a cart line
  clear                          empty the cart
  checkout                       place the order
  register <user> <pass> [email] create an account
  login <user> <pass>            sign in
  logout                         sign out
  admin list                     list all products (admin)
  admin create key=value ...     add a product (admin)
  admin update <id> key=value .. change a product (admin)
  help | quit`

type shell struct {
	api     *client.Client
	session *session.Session
	cart    *cart.Store
	catalog *catalog.View
	admin   *admin.View
	out     io.Writer
	logger  *zap.Logger
}

func (s *shell) run(ctx context.Context, in *bufio.Scanner) {
	fmt.Fprintln(s.out, help)
	for {
		fmt.Fprint(s.out, "> ")
		if !in.Scan() || ctx.Err() != nil {
			return
		}

		args := strings.Fields(in.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}

		if err := s.exec(ctx, args); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintln(s.out, help)
				continue
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *shell) exec(ctx context.Context, args []string) error {
	switch args[0] {
	case "help":
		return errUsage
	case "categories":
		s.printCategories()
		return nil
	case "products":
		s.printProducts(s.catalog.Products())
		return nil
	case "select":
		if len(args) != 2 {
			return errUsage
		}
		if args[1] == "all" {
			return s.catalog.SelectCategory(ctx, nil)
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[1])
		}
		return s.catalog.SelectCategory(ctx, &id)
	case "add":
		if len(args) < 2 {
			return errUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		qty := 1
		if len(args) > 2 {
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
		}
		return s.catalog.AddToCart(id, qty)
	case "cart":
		s.printCart()
		return nil
	case "qty":
		if len(args) != 3 {
			return errUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		s.cart.SetQuantity(id, qty)
		return nil
	case "remove":
		if len(args) != 2 {
			return errUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		s.cart.Remove(id)
		return nil
	case "clear":
		s.cart.Clear()
		return nil
	case "checkout":
		receipt, err := s.cart.Checkout()
		if err != nil {
			return err
		}
		s.logger.Info("Order placed", zap.String("order_id", receipt.OrderID.String()), zap.String("total", receipt.Total.String()))
		fmt.Fprintf(s.out, "order %s placed, total %s\n", receipt.OrderID, receipt.Total.StringFixed(2))
		return nil
	case "register", "login":
		return s.authenticate(ctx, args)
	case "logout":
		s.session.Logout()
		return nil
	case "admin":
		return s.adminCommand(ctx, args[1:])
	default:
		return errUsage
	}
}

func (s *shell) authenticate(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}

	var (
		result *client.AuthResult
		err    error
	)
	if args[0] == "register" {
		email := ""
		if len(args) > 3 {
			email = args[3]
		}
		result, err = s.api.Auth.Register(ctx, args[1], args[2], email)
	} else {
		result, err = s.api.Auth.Login(ctx, args[1], args[2])
	}
	if err != nil {
		return err
	}

	s.session.Login(result.User, result.Token)
	role := domain.RoleUser
	if result.User.IsAdmin {
		role = domain.RoleAdmin
	}
	fmt.Fprintf(s.out, "signed in as %s (%s)\n", result.User.Username, role)
	return nil
}

func (s *shell) adminCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "list":
		if err := s.admin.Load(ctx); err != nil {
			return err
		}
		s.printProducts(s.admin.Products())
		return nil
	case "create":
		form := admin.Form{}
		if err := applyFields(&form, args[1:]); err != nil {
			return err
		}
		return s.admin.Submit(ctx, form, nil)
	case "update":
		if len(args) < 3 {
			return errUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		if len(s.admin.Products()) == 0 {
			if err := s.admin.Load(ctx); err != nil {
				return err
			}
		}
		form, err := s.admin.Edit(id)
		if err != nil {
			return err
		}
		if err := applyFields(&form, args[2:]); err != nil {
			return err
		}
		return s.admin.Submit(ctx, form, &id)
	default:
		return errUsage
	}
}

// applyFields sets form fields from key=value pairs
func applyFields(form *admin.Form, pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", pair)
		}
		value = strings.ReplaceAll(value, "_", " ")

		var err error
		switch key {
		case "name":
			form.Name = value
		case "article":
			form.Article = value
		case "description":
			form.Description = value
		case "image_url":
			form.ImageURL = value
		case "price":
			form.Price, err = decimal.NewFromString(value)
		case "discount":
			form.Discount, err = decimal.NewFromString(value)
		case "stock":
			form.Stock, err = strconv.Atoi(value)
		case "category_id":
			var id int64
			id, err = strconv.ParseInt(value, 10, 64)
			form.CategoryID = &id
		default:
			return fmt.Errorf("unknown field %q", key)
		}
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	return nil
}

func (s *shell) printCategories() {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG\tPRODUCTS")
	for _, c := range s.catalog.Categories() {
		count := strconv.Itoa(c.ActualCount)
		if c.Drift() != 0 {
			count += fmt.Sprintf(" (listed %d)", c.ProductCount)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Slug, count)
	}
	w.Flush()
}

func (s *shell) printProducts(products []domain.Product) {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tARTICLE\tNAME\tPRICE\tSTOCK\tCATEGORY")
	for _, p := range products {
		price := p.EffectivePrice().StringFixed(2)
		if p.HasDiscount() {
			price += fmt.Sprintf(" (-%s%% from %s)", p.Discount.String(), p.Price.StringFixed(2))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Article, p.Name, price, p.Stock, p.CategoryName)
	}
	w.Flush()
}

func (s *shell) printCart() {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "cart is empty")
		return
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", l.Product.ID, l.Product.Name, l.Quantity, l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(w, "\t\t%d\t%s\n", s.cart.Items(), s.cart.Total().StringFixed(2))
	w.Flush()
}
