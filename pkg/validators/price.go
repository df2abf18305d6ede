package validators

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Prices are stored as decimal(5,2)
const (
	priceMaxDigits = 5
	pricePlaces    = 2
)

var (
	ErrPriceTooManyDigits = errors.New("ensure that there are no more than 5 digits in total")
	ErrPriceTooManyPlaces = errors.New("ensure that there are no more than 2 decimal places")
)

func PriceValidator(p decimal.Decimal) error {
	if !p.Equal(p.Round(pricePlaces)) {
		return ErrPriceTooManyPlaces
	}

	limit := decimal.New(1, priceMaxDigits-pricePlaces)
	if p.Abs().GreaterThanOrEqual(limit) {
		return ErrPriceTooManyDigits
	}

	return nil
}
