package upload

import (
	"fmt"
	"strings"
	"time"
)

// Column order of a transaction upload row.
const (
	colDate = iota
	colItem
	colCustomer
	colStore
	colPayment
	colPurchase
	colNotes
)

// Column order of a product upload row.
const (
	colProductName = iota
	colProductType
	colProductPrice
	productColumns
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
}

// ParseDate accepts the calendar date spellings common in spreadsheet
// exports. Slash dates are month first. Impossible dates such as 2024-02-30
// are rejected.
func ParseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			y, m, d := parsed.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Corpus holds the reference names free-text upload fields are snapped to.
type Corpus struct {
	Products  []string `json:"products"`
	Customers []string `json:"customers"`
	Stores    []string `json:"stores"`
}

// TransactionCandidate is one parsed upload row awaiting confirmation. The
// *Original fields keep the text as typed so the corrected value can be shown
// next to it.
type TransactionCandidate struct {
	Date                  time.Time `json:"date"`
	ItemPurchased         string    `json:"item_purchased"`
	ItemPurchasedOriginal string    `json:"item_purchased_original"`
	CustomerName          string    `json:"customer_name"`
	CustomerNameOriginal  string    `json:"customer_name_original"`
	StoreName             string    `json:"store_name"`
	StoreNameOriginal     string    `json:"store_name_original"`
	PaymentMethod         string    `json:"payment_method"`
	PurchasePrice         int64     `json:"purchase_price"`
	SellingPrice          int64     `json:"selling_price"`
	Revenue               int64     `json:"revenue"`
	Notes                 string    `json:"notes"`
	CorrectedFields       []string  `json:"corrected_fields,omitempty"`
	IsValid               bool      `json:"is_valid"`
	Errors                []string  `json:"errors"`
}

type ProductCandidate struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Price   int64    `json:"price"`
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// TransactionParser validates transaction rows against one corpus snapshot.
type TransactionParser struct {
	items     *Matcher
	customers *Matcher
	stores    *Matcher
}

func NewTransactionParser(corpus Corpus, threshold float64) *TransactionParser {
	return &TransactionParser{
		items:     NewMatcher(corpus.Products, threshold),
		customers: NewMatcher(corpus.Customers, threshold),
		stores:    NewMatcher(corpus.Stores, threshold),
	}
}

// ValidateRow checks every rule and collects all failures; it never stops at
// the first one. rowIndex is 0-based and reported 1-based.
func (p *TransactionParser) ValidateRow(fields []string, rowIndex int) TransactionCandidate {
	rowNo := rowIndex + 1
	c := TransactionCandidate{
		ItemPurchasedOriginal: fieldAt(fields, colItem),
		CustomerNameOriginal:  fieldAt(fields, colCustomer),
		StoreNameOriginal:     fieldAt(fields, colStore),
		PaymentMethod:         fieldAt(fields, colPayment),
		Notes:                 fieldAt(fields, colNotes),
		Errors:                []string{},
	}
	c.ItemPurchased = p.items.BestMatch(c.ItemPurchasedOriginal)
	c.CustomerName = p.customers.BestMatch(c.CustomerNameOriginal)
	c.StoreName = p.stores.BestMatch(c.StoreNameOriginal)

	if date, ok := ParseDate(fieldAt(fields, colDate)); ok {
		c.Date = date
	} else {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Invalid date format", rowNo))
	}
	if c.ItemPurchased == "" {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Item purchase is required", rowNo))
	}
	if c.CustomerName == "" {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Customer name is required", rowNo))
	}
	if c.StoreName == "" {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Store name is required", rowNo))
	}
	if c.PaymentMethod == "" {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Payment method is required", rowNo))
	}
	if raw := fieldAt(fields, colPurchase); raw != "" {
		amount, ok := parseAmountText(raw)
		if !ok || amount < 0 {
			c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Invalid purchase price", rowNo))
		} else {
			c.PurchasePrice = amount
		}
	}

	// Upload files carry no selling price; it is filled in later by editing.
	c.SellingPrice = 0
	c.Revenue = c.SellingPrice - c.PurchasePrice

	if IsCorrected(c.ItemPurchasedOriginal, c.ItemPurchased) {
		c.CorrectedFields = append(c.CorrectedFields, "item_purchased")
	}
	if IsCorrected(c.CustomerNameOriginal, c.CustomerName) {
		c.CorrectedFields = append(c.CorrectedFields, "customer_name")
	}
	if IsCorrected(c.StoreNameOriginal, c.StoreName) {
		c.CorrectedFields = append(c.CorrectedFields, "store_name")
	}

	c.IsValid = len(c.Errors) == 0
	return c
}

func ValidateProductRow(fields []string, rowIndex int) ProductCandidate {
	rowNo := rowIndex + 1
	c := ProductCandidate{
		Name:   fieldAt(fields, colProductName),
		Type:   fieldAt(fields, colProductType),
		Price:  ParseAmount(fieldAt(fields, colProductPrice)),
		Errors: []string{},
	}

	if len(fields) < productColumns {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Missing required columns", rowNo))
	}
	if c.Name == "" {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Product name is required", rowNo))
	}
	if c.Type == "" {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Product type is required", rowNo))
	}
	if c.Price <= 0 {
		c.Errors = append(c.Errors, fmt.Sprintf("Row %d: Invalid price (must be greater than 0)", rowNo))
	}

	c.IsValid = len(c.Errors) == 0
	return c
}

func fieldAt(fields []string, index int) string {
	if index < len(fields) {
		return strings.TrimSpace(fields[index])
	}
	return ""
}
