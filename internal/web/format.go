package web

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatPrice renders amount with two decimals behind the currency symbol,
// e.g. "A$24.50".
func FormatPrice(amount float64, symbol string) string {
	if symbol == "" {
		symbol = "$"
	}
	return symbol + decimal.NewFromFloat(amount).StringFixed(2)
}

// Possessive turns a product name into its possessive form: "dog beds’"
// for names ending in s, "dog bed’s" otherwise.
func Possessive(product string) string {
	product = strings.TrimSpace(product)
	if product == "" {
		return ""
	}
	if strings.HasSuffix(product, "s") {
		return product + "’"
	}
	return product + "’s"
}

// FormatCount groups thousands: 12100 -> "12,100".
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

func formatOptionalCount(n *int) string {
	if n == nil {
		return "n/a"
	}
	return FormatCount(*n)
}

func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

func formatOptionalPrice(amount *float64, symbol string) string {
	if amount == nil {
		return "n/a"
	}
	return FormatPrice(*amount, symbol)
}
