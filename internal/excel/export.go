package excel

import (
	"fmt"
	"io"

	"recap/internal/domain"

	"github.com/xuri/excelize/v2"
)

var transactionColumns = []string{
	"Date", "Item Purchase", "Customer Name", "Store Name", "Payment Method",
	"Purchase", "Selling", "Revenue", "Notes",
}

// WriteTransactions streams a one-sheet workbook of transactions to w.
// Amounts are written as numbers so the sheet can total them.
func WriteTransactions(w io.Writer, transactions []domain.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := writeHeader(f, sheet, transactionColumns); err != nil {
		return err
	}
	for i, tx := range transactions {
		r := i + 2
		notes := ""
		if tx.Notes != nil {
			notes = *tx.Notes
		}
		values := []any{
			tx.Date.Format("2006-01-02"),
			tx.ItemPurchased,
			tx.CustomerName,
			tx.StoreName,
			tx.PaymentMethod,
			tx.PurchasePrice,
			tx.SellingPrice,
			tx.Revenue,
			notes,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteRows writes plain text rows, the first being the header.
func WriteRows(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, columns []string) error {
	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}
	return nil
}
