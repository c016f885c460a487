// Package core holds the pure dues-ledger domain: resident records, money
// amounts, and the derived monthly summary. Nothing here touches storage
// or the presentation layer.
package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var trPrinter = message.NewPrinter(language.Turkish)

// ParseAmount converts user-supplied text to Money. It is deliberately
// lenient: both dot (12.34) and comma (12,34) decimal separators are
// accepted, the third decimal digit rounds half-up, and anything that is
// not a non-negative number coerces to zero. Form fields feeding the
// ledger carry no validation of their own, so this is where bad input is
// absorbed rather than reported.
//
// Examples:
//
//	ParseAmount("12.34") -> 1234 cents
//	ParseAmount("12,345") -> 1235 cents (rounds up)
//	ParseAmount("") -> 0
//	ParseAmount("abc") -> 0
//	ParseAmount("-5") -> 0
func ParseAmount(s string) Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}
		}
	}
	var iv int64
	for _, r := range intPart {
		d := int64(r - '0')
		// Prevent overflow when accumulating and multiplying by 100
		const maxSafeInt64 = (1<<63 - 1) / 100
		if iv > (maxSafeInt64-d)/10 {
			return Money{}
		}
		iv = iv*10 + d
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return Money{Cents: iv*100 + fracCents}
}

// FormatMoney renders an amount with exactly two decimals in the Turkish
// locale: dot-grouped thousands, comma decimals ("1.234,56").
func FormatMoney(m Money) string {
	return trPrinter.Sprint(number.Decimal(m.Lira(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}
