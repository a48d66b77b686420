package format_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wondersell/seller-stats/pkg/format"
)

func TestNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{in: 11574747, want: "11 574 747"},
		{in: 11574747.88, want: "11 574 747,88"},
		{in: -12345678.99, want: "-12 345 678,99"},
		{in: -12345678.991, want: "-12 345 678,99"},
		{in: 0, want: "0"},
		{in: 999, want: "999"},
		{in: 1000, want: "1 000"},
		{in: 12.5, want: "12,5"},
		{in: 12.999, want: "13"},
		{in: -0.5, want: "-0,5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, format.Number(tt.in))
		})
	}
}

func TestDecimal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 234 567,89", format.Decimal(decimal.RequireFromString("1234567.891")))
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{in: 0.8, want: "80%"},
		{in: 0.55, want: "55%"},
		{in: 0.875, want: "87,5%"},
		{in: 0.9999, want: "99,99%"},
		{in: 1.986, want: "198,6%"},
		{in: -123.8988, want: "-12 389,88%"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, format.Percent(tt.in))
		})
	}
}

func TestCurrency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "`11 574 747` руб.", format.Currency(11574747))
	assert.Equal(t, "`11 574 747,88` руб.", format.Currency(11574747.88))
	assert.Equal(t, "`-12 345 678,99` руб.", format.Currency(-12345678.99))
	assert.Equal(t, "`100` $", format.CurrencyWith(100, "$"))
}

func TestQuantity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "`11 574 747` шт.", format.Quantity(11574747))
	assert.Equal(t, "`11 574 747,88` шт.", format.Quantity(11574747.88))
	assert.Equal(t, "`-12 345 678,99` шт.", format.Quantity(-12345678.99))
	assert.Equal(t, "`3` pcs", format.QuantityWith(3, "pcs"))
}

func TestAddPostfix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      float64
		postfix string
		marker  string
		want    string
	}{
		{name: "backtick", in: 11574747, postfix: "руб.", marker: "`", want: "`11 574 747` руб."},
		{name: "empty postfix", in: 11574747.88, postfix: "", marker: "эээ", want: "эээ11 574 747,88эээ"},
		{name: "no marker", in: -12345678.99, postfix: "шт.", marker: "", want: "-12 345 678,99 шт."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, format.AddPostfix(tt.in, tt.postfix, tt.marker))
		})
	}
}
