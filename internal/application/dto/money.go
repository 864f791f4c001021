package dto

import "github.com/shopspring/decimal"

// Money valor monetário serializado como número JSON com duas casas (12.50).
// Na leitura aceita número ou string numérica.
type Money decimal.Decimal

func NewMoney(d decimal.Decimal) Money { return Money(d) }

func (m Money) Decimal() decimal.Decimal { return decimal.Decimal(m) }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}
