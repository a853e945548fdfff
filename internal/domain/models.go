package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a single sale record. Revenue is always SellingPrice minus
// PurchasePrice and Month/Year always mirror Date.
type Transaction struct {
	ID            uuid.UUID `json:"id"`
	Date          time.Time `json:"date"`
	ItemPurchased string    `json:"item_purchased"`
	CustomerName  string    `json:"customer_name"`
	StoreName     string    `json:"store_name"`
	PaymentMethod string    `json:"payment_method"`
	PurchasePrice int64     `json:"purchase_price"`
	SellingPrice  int64     `json:"selling_price"`
	Revenue       int64     `json:"revenue"`
	Notes         *string   `json:"notes,omitempty"`
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TransactionInput struct {
	Date          time.Time `json:"date"`
	ItemPurchased string    `json:"item_purchased"`
	CustomerName  string    `json:"customer_name"`
	StoreName     string    `json:"store_name"`
	PaymentMethod string    `json:"payment_method"`
	PurchasePrice int64     `json:"purchase_price"`
	SellingPrice  int64     `json:"selling_price"`
	Notes         *string   `json:"notes,omitempty"`
}

// TransactionPatch carries the fields of a partial update. Nil means keep.
type TransactionPatch struct {
	Date          *time.Time
	ItemPurchased *string
	CustomerName  *string
	StoreName     *string
	PaymentMethod *string
	PurchasePrice *int64
	SellingPrice  *int64
	Notes         *string
}

type TransactionFilter struct {
	Search        string
	PaymentMethod string
}

type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type ProductPatch struct {
	Name     *string
	Type     *string
	Quantity *int
	Price    *int64
}

type MonthStats struct {
	Month             int     `json:"month"`
	Year              int     `json:"year"`
	TotalTransactions int     `json:"total_transactions"`
	TotalRevenue      int64   `json:"total_revenue"`
	TotalSales        int64   `json:"total_sales"`
	AverageRevenue    float64 `json:"average_revenue"`
	TopProduct        string  `json:"top_product,omitempty"`
}

// BulkInsertResult reports a deduplicating product insert. Duplicates lists
// in-batch repeats first, then names that already existed in the store.
type BulkInsertResult struct {
	Created    []Product `json:"created"`
	Skipped    int       `json:"skipped"`
	Duplicates []string  `json:"duplicates"`
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewTransaction(input TransactionInput, now time.Time) Transaction {
	date := DateOnly(input.Date)
	return Transaction{
		ID:            uuid.New(),
		Date:          date,
		ItemPurchased: input.ItemPurchased,
		CustomerName:  input.CustomerName,
		StoreName:     input.StoreName,
		PaymentMethod: input.PaymentMethod,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		Revenue:       input.SellingPrice - input.PurchasePrice,
		Notes:         input.Notes,
		Month:         int(date.Month()),
		Year:          date.Year(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Apply merges patch into t and re-derives Revenue, Month and Year.
func (t *Transaction) Apply(patch TransactionPatch, now time.Time) {
	if patch.Date != nil {
		t.Date = DateOnly(*patch.Date)
	}
	if patch.ItemPurchased != nil {
		t.ItemPurchased = *patch.ItemPurchased
	}
	if patch.CustomerName != nil {
		t.CustomerName = *patch.CustomerName
	}
	if patch.StoreName != nil {
		t.StoreName = *patch.StoreName
	}
	if patch.PaymentMethod != nil {
		t.PaymentMethod = *patch.PaymentMethod
	}
	if patch.PurchasePrice != nil {
		t.PurchasePrice = *patch.PurchasePrice
	}
	if patch.SellingPrice != nil {
		t.SellingPrice = *patch.SellingPrice
	}
	if patch.Notes != nil {
		t.Notes = patch.Notes
	}
	t.Revenue = t.SellingPrice - t.PurchasePrice
	t.Month = int(t.Date.Month())
	t.Year = t.Date.Year()
	t.UpdatedAt = now
}

func NewProduct(input ProductInput, now time.Time) Product {
	return Product{
		ID:        uuid.New(),
		Name:      input.Name,
		Type:      input.Type,
		Quantity:  input.Quantity,
		Price:     input.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Product) Apply(patch ProductPatch, now time.Time) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	p.UpdatedAt = now
}
