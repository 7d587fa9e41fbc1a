// Package cart holds the shopper's in-memory basket.
package cart

import (
	"errors"
	"sync"
	"time"

	"autoparts-store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// Line is one product in the cart. Product is a snapshot taken when the
// line was first added.
type Line struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Subtotal is the discounted price times the quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Receipt is what Checkout hands back once the cart is emptied
type Receipt struct {
	OrderID  uuid.UUID       `json:"order_id"`
	Lines    []Line          `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	PlacedAt time.Time       `json:"placed_at"`
}

// Store keeps at most one line per product id, in insertion order
type Store struct {
	mu    sync.RWMutex
	lines []Line
}

func New() *Store {
	return &Store{}
}

func (s *Store) indexOf(id int64) int {
	for i, l := range s.lines {
		if l.Product.ID == id {
			return i
		}
	}
	return -1
}

// Add merges quantity into the product's line, creating it if needed.
// A quantity below 1 counts as 1. Stock is not checked.
func (s *Store) Add(product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity += quantity
		return
	}
	s.lines = append(s.lines, Line{Product: product, Quantity: quantity})
}

// SetQuantity overwrites a line's quantity; below 1 removes the line.
// Unknown ids are ignored.
func (s *Store) SetQuantity(id int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	if quantity < 1 {
		s.removeAt(i)
		return
	}
	s.lines[i].Quantity = quantity
}

func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.removeAt(i)
	}
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

// Total sums effective price times quantity over all lines
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return total(s.lines)
}

func total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// Lines returns a copy of the lines in insertion order
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Line(id int64) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// Count is the number of distinct products
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Items is the number of units across all lines
func (s *Store) Items() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Checkout freezes the current lines into a receipt and empties the cart.
// Nothing is charged or sent anywhere.
func (s *Store) Checkout() (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return nil, ErrEmptyCart
	}

	receipt := &Receipt{
		OrderID:  uuid.New(),
		Lines:    s.lines,
		Total:    total(s.lines),
		PlacedAt: time.Now(),
	}
	s.lines = nil

	return receipt, nil
}
