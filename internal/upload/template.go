package upload

import (
	"strings"

	"recap/internal/currency"
)

var (
	TransactionHeader = []string{"Date", "Item Purchase", "Customer Name", "Store Name", "Payment Method", "Purchase", "Notes"}
	ProductHeader     = []string{"Name", "Type", "Price"}
)

type transactionSample struct {
	date, item, customer, store, payment string
	purchase                             int64
	notes                                string
}

type productSample struct {
	name, kind string
	price      int64
}

var transactionSamples = []transactionSample{
	{"2024-01-15", "Wireless Headphones", "John Smith", "Tech Store Downtown", "Credit Card", 1125000, "Customer was very satisfied"},
	{"2024-01-16", "Coffee Mug", "Sarah Johnson", "Home Goods Plus", "Cash", 127500, "Part of a bulk order"},
}

var productSamples = []productSample{
	{"Wireless Headphones", "Electronics", 1499850},
	{"Coffee Mug", "Kitchenware", 194850},
	{"Business Notebook", "Stationery", 125000},
}

// TransactionTemplateRows returns the header plus example rows users start
// a transaction upload from.
func TransactionTemplateRows() [][]string {
	rows := [][]string{TransactionHeader}
	for _, s := range transactionSamples {
		rows = append(rows, []string{s.date, s.item, s.customer, s.store, s.payment, currency.FormatRupiah(s.purchase), s.notes})
	}
	return rows
}

func ProductTemplateRows() [][]string {
	rows := [][]string{ProductHeader}
	for _, s := range productSamples {
		rows = append(rows, []string{s.name, s.kind, currency.FormatRupiah(s.price)})
	}
	return rows
}

func TransactionTemplateCSV() string {
	return joinRows(TransactionTemplateRows())
}

func ProductTemplateCSV() string {
	return joinRows(ProductTemplateRows())
}

// joinRows writes rows in the same dialect Tokenize reads: fields holding
// the delimiter are wrapped in quotes.
func joinRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(fieldDelimiter)
			}
			if strings.ContainsRune(field, fieldDelimiter) {
				b.WriteString(`"` + field + `"`)
			} else {
				b.WriteString(field)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
