package upload

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"recap/internal/domain"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const minFileLines = 2

// FormatError rejects a whole upload before any row is looked at.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}

var (
	errTooFewLines = &FormatError{Reason: "File must contain at least a header row and one data row"}
	errNotText     = &FormatError{Reason: "File is not valid UTF-8 text"}
)

// Summary counts the outcome of one parsed upload.
type Summary struct {
	Total     int `json:"total"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Corrected int `json:"corrected"`
}

// DecodeText turns uploaded bytes into text. UTF-16 files with a byte order
// mark are transcoded; anything else must already be UTF-8.
func DecodeText(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", errNotText
		}
		data = decoded
	}
	if !utf8.Valid(data) {
		return "", errNotText
	}
	return strings.TrimPrefix(string(data), "\uFEFF"), nil
}

// ParseFile validates every data line of a transaction upload. The first
// non-empty line is the header and is skipped without inspection.
func (p *TransactionParser) ParseFile(raw string) ([]TransactionCandidate, error) {
	rows, err := tokenizeLines(raw)
	if err != nil {
		return nil, err
	}
	return p.parseRows(rows)
}

// ParseRows is ParseFile for input that is already split into cells, such as
// a spreadsheet sheet.
func (p *TransactionParser) ParseRows(rows [][]string) ([]TransactionCandidate, error) {
	return p.parseRows(dropBlankRows(rows))
}

func (p *TransactionParser) parseRows(rows [][]string) ([]TransactionCandidate, error) {
	if len(rows) < minFileLines {
		return nil, errTooFewLines
	}
	candidates := make([]TransactionCandidate, 0, len(rows)-1)
	for index, fields := range rows[1:] {
		candidates = append(candidates, p.ValidateRow(fields, index))
	}
	return candidates, nil
}

func ParseProductFile(raw string) ([]ProductCandidate, error) {
	rows, err := tokenizeLines(raw)
	if err != nil {
		return nil, err
	}
	return parseProductRows(rows)
}

func ParseProductRows(rows [][]string) ([]ProductCandidate, error) {
	return parseProductRows(dropBlankRows(rows))
}

func parseProductRows(rows [][]string) ([]ProductCandidate, error) {
	if len(rows) < minFileLines {
		return nil, errTooFewLines
	}
	candidates := make([]ProductCandidate, 0, len(rows)-1)
	for index, fields := range rows[1:] {
		candidates = append(candidates, ValidateProductRow(fields, index))
	}
	return candidates, nil
}

// ValidTransactions keeps the confirmed-valid rows and strips the preview-only
// fields.
// ValidTransactions maps the committable candidates to inputs. Candidates
// come back from the client, so the row rules are checked again on the typed
// fields instead of trusting IsValid alone.
func ValidTransactions(candidates []TransactionCandidate) []domain.TransactionInput {
	inputs := make([]domain.TransactionInput, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsValid || len(c.Errors) > 0 || !c.committable() {
			continue
		}
		var notes *string
		if c.Notes != "" {
			value := c.Notes
			notes = &value
		}
		inputs = append(inputs, domain.TransactionInput{
			Date:          c.Date,
			ItemPurchased: c.ItemPurchased,
			CustomerName:  c.CustomerName,
			StoreName:     c.StoreName,
			PaymentMethod: c.PaymentMethod,
			PurchasePrice: c.PurchasePrice,
			SellingPrice:  c.SellingPrice,
			Notes:         notes,
		})
	}
	return inputs
}

func ValidProducts(candidates []ProductCandidate) []domain.ProductInput {
	inputs := make([]domain.ProductInput, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsValid || len(c.Errors) > 0 || !c.committable() {
			continue
		}
		inputs = append(inputs, domain.ProductInput{
			Name:  strings.TrimSpace(c.Name),
			Type:  strings.TrimSpace(c.Type),
			Price: c.Price,
		})
	}
	return inputs
}

func (c TransactionCandidate) committable() bool {
	return !c.Date.IsZero() &&
		strings.TrimSpace(c.ItemPurchased) != "" &&
		strings.TrimSpace(c.CustomerName) != "" &&
		strings.TrimSpace(c.StoreName) != "" &&
		strings.TrimSpace(c.PaymentMethod) != "" &&
		c.PurchasePrice >= 0 &&
		c.SellingPrice >= 0
}

func (c ProductCandidate) committable() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Type) != "" &&
		c.Price > 0
}

func SummarizeTransactions(candidates []TransactionCandidate) Summary {
	summary := Summary{Total: len(candidates)}
	for _, c := range candidates {
		if c.IsValid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		if len(c.CorrectedFields) > 0 {
			summary.Corrected++
		}
	}
	return summary
}

func SummarizeProducts(candidates []ProductCandidate) Summary {
	summary := Summary{Total: len(candidates)}
	for _, c := range candidates {
		if c.IsValid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
	}
	return summary
}

func tokenizeLines(raw string) ([][]string, error) {
	if !utf8.ValidString(raw) {
		return nil, errNotText
	}
	lines := strings.Split(raw, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, Tokenize(line))
	}
	return rows, nil
}

func dropBlankRows(rows [][]string) [][]string {
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}
