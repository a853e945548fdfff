// Package currency formats Indonesian Rupiah amounts for display and for
// generated files.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const Symbol = "Rp"

// FormatRupiah renders a whole-Rupiah amount with Indonesian digit grouping,
// for example "Rp 1.125.000". Negative amounts lead with the sign.
func FormatRupiah(amount int64) string {
	p := message.NewPrinter(language.Indonesian)
	if amount < 0 {
		return "-" + Symbol + " " + p.Sprintf("%d", -amount)
	}
	return Symbol + " " + p.Sprintf("%d", amount)
}

// FormatNumber renders amount with Indonesian digit grouping and no symbol.
func FormatNumber(amount int64) string {
	return message.NewPrinter(language.Indonesian).Sprintf("%d", amount)
}
