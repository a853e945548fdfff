package repository

import (
	"database/sql"
	"time"

	"recap/internal/domain"

	"github.com/google/uuid"
)

const (
	transactionColumns = `id, date, item_purchased, customer_name, store_name, payment_method, purchase_price, selling_price, revenue, notes, month, year, created_at, updated_at`
	productColumns     = `id, name, type, quantity, price, created_at, updated_at`

	transactionColumnCount = 14
	productColumnCount     = 7
)

// transactionRecord mirrors one row of the transactions table.
type transactionRecord struct {
	ID            uuid.UUID
	Date          time.Time
	ItemPurchased string
	CustomerName  string
	StoreName     string
	PaymentMethod string
	PurchasePrice int64
	SellingPrice  int64
	Revenue       int64
	Notes         sql.NullString
	Month         int
	Year          int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type productRecord struct {
	ID        uuid.UUID
	Name      string
	Type      string
	Quantity  int
	Price     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func transactionToRecord(t domain.Transaction) transactionRecord {
	rec := transactionRecord{
		ID:            t.ID,
		Date:          t.Date,
		ItemPurchased: t.ItemPurchased,
		CustomerName:  t.CustomerName,
		StoreName:     t.StoreName,
		PaymentMethod: t.PaymentMethod,
		PurchasePrice: t.PurchasePrice,
		SellingPrice:  t.SellingPrice,
		Revenue:       t.Revenue,
		Month:         t.Month,
		Year:          t.Year,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.Notes != nil {
		rec.Notes = sql.NullString{String: *t.Notes, Valid: true}
	}
	return rec
}

func (r transactionRecord) toDomain() domain.Transaction {
	t := domain.Transaction{
		ID:            r.ID,
		Date:          domain.DateOnly(r.Date),
		ItemPurchased: r.ItemPurchased,
		CustomerName:  r.CustomerName,
		StoreName:     r.StoreName,
		PaymentMethod: r.PaymentMethod,
		PurchasePrice: r.PurchasePrice,
		SellingPrice:  r.SellingPrice,
		Revenue:       r.Revenue,
		Month:         r.Month,
		Year:          r.Year,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Notes.Valid {
		notes := r.Notes.String
		t.Notes = &notes
	}
	return t
}

// args lists the record in transactionColumns order.
func (r transactionRecord) args() []any {
	return []any{
		r.ID, r.Date, r.ItemPurchased, r.CustomerName, r.StoreName, r.PaymentMethod,
		r.PurchasePrice, r.SellingPrice, r.Revenue, r.Notes, r.Month, r.Year,
		r.CreatedAt, r.UpdatedAt,
	}
}

func productToRecord(p domain.Product) productRecord {
	return productRecord{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type,
		Quantity:  p.Quantity,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r productRecord) toDomain() domain.Product {
	return domain.Product{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		Quantity:  r.Quantity,
		Price:     r.Price,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r productRecord) args() []any {
	return []any{r.ID, r.Name, r.Type, r.Quantity, r.Price, r.CreatedAt, r.UpdatedAt}
}
