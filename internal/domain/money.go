package domain

import "github.com/shopspring/decimal"

// zeroDecimalCurrencies have no minor unit; everything else rounds to two
// places. Good enough for the currencies the registry carries.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
}

// CurrencyExponent returns the number of minor-unit digits for a currency.
func CurrencyExponent(currency string) int32 {
	if zeroDecimalCurrencies[currency] {
		return 0
	}
	return 2
}

// RoundMoney rounds an amount to the currency's native minor-unit precision.
// Applied only at the point of display; intermediate arithmetic stays exact.
func RoundMoney(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(CurrencyExponent(currency))
}
