package inventory

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ItemInput carries the full field set for CreateItem and ReplaceItem.
// Zero values are the normalized defaults: empty text, quantity 0, price 0.0.
type ItemInput struct {
	ProductName string
	SKU         string
	Category    string
	Quantity    int     `validate:"gte=0"`
	Supplier    string
	Price       float64 `validate:"gte=0"`
	Location    string
}

// ItemPatch carries a partial field set for PatchItem. Nil fields keep the
// item's current value.
type ItemPatch struct {
	ProductName *string
	SKU         *string
	Category    *string
	Quantity    *int     `validate:"omitempty,gte=0"`
	Supplier    *string
	Price       *float64 `validate:"omitempty,gte=0"`
	Location    *string
}

var validate = validator.New()

// checkInput enforces the presence of the SKU and the numeric bounds.
func checkInput(in ItemInput) error {
	if in.SKU == "" {
		return ErrMissingSKU
	}
	return checkBounds(in)
}

// checkBounds runs struct validation and translates the first failure into a
// ValidationError.
func checkBounds(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{
			Field:  strings.ToLower(verrs[0].Field()),
			Reason: "must be " + verrs[0].Tag(),
		}
	}
	return err
}
