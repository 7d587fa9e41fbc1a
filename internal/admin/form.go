package admin

import (
	"errors"
	"fmt"
	"strings"

	"autoparts-store/internal/client"
	"autoparts-store/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrInvalidForm = errors.New("invalid product form")

var validate = newValidator()

// Form is the product create/edit form
type Form struct {
	Name        string `validate:"required"`
	Article     string `validate:"required"`
	Description string `validate:"max=5000"`
	Price       decimal.Decimal
	Discount    decimal.Decimal
	ImageURL    string `validate:"max=500"`
	CategoryID  *int64 `validate:"omitempty,gt=0"`
	Stock       int    `validate:"gte=0"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateAmounts, Form{})
	return v
}

// validateAmounts covers the decimal fields, which tags cannot compare
func validateAmounts(sl validator.StructLevel) {
	form := sl.Current().Interface().(Form)

	if !form.Price.IsPositive() {
		sl.ReportError(form.Price, "Price", "Price", "gt", "0")
	}
	if form.Discount.IsNegative() || form.Discount.GreaterThan(decimal.NewFromInt(100)) {
		sl.ReportError(form.Discount, "Discount", "Discount", "range", "0-100")
	}
}

// Validate checks the form before anything is sent
func (f Form) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Article = strings.TrimSpace(f.Article)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	fields := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(fields, ", "))
}

// FormFrom prefills the form with an existing product
func FormFrom(p domain.Product) Form {
	return Form{
		Name:        p.Name,
		Article:     p.Article,
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		Stock:       p.Stock,
	}
}

func (f Form) input() client.ProductInput {
	return client.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Article:     strings.TrimSpace(f.Article),
		Description: f.Description,
		Price:       f.Price,
		Discount:    f.Discount,
		ImageURL:    f.ImageURL,
		CategoryID:  f.CategoryID,
		Stock:       f.Stock,
	}
}

// patch sends every form field, as the edit form shows them all. An empty
// category clears the product's category.
func (f Form) patch() domain.ProductPatch {
	in := f.input()
	return domain.ProductPatch{
		Name:        &in.Name,
		Article:     &in.Article,
		Description: &in.Description,
		Price:       &in.Price,
		Discount:    &in.Discount,
		ImageURL:    &in.ImageURL,
		CategoryID:  domain.SetID(in.CategoryID),
		Stock:       &in.Stock,
	}
}
