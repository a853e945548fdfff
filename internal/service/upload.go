package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"recap/internal/domain"
	"recap/internal/excel"
	"recap/internal/metrics"
	"recap/internal/upload"
)

const (
	kindTransactions = "transactions"
	kindProducts     = "products"
)

type TransactionPreview struct {
	Transactions []upload.TransactionCandidate `json:"transactions"`
	Summary      upload.Summary                `json:"summary"`
}

type ProductPreview struct {
	Products []upload.ProductCandidate `json:"products"`
	Summary  upload.Summary            `json:"summary"`
}

// PreviewTransactions parses an uploaded .csv or .xlsx file into candidates
// corrected against a fresh corpus snapshot. Nothing is written.
func (s *Service) PreviewTransactions(ctx context.Context, fileName string, data []byte) (TransactionPreview, error) {
	corpus, err := s.LoadCorpus(ctx)
	if err != nil {
		return TransactionPreview{}, err
	}
	parser := upload.NewTransactionParser(corpus, s.threshold)

	var candidates []upload.TransactionCandidate
	switch {
	case isCSV(fileName):
		text, err := upload.DecodeText(data)
		if err != nil {
			return TransactionPreview{}, err
		}
		candidates, err = parser.ParseFile(text)
		if err != nil {
			return TransactionPreview{}, err
		}
	case excel.IsWorkbook(fileName):
		rows, err := readWorkbook(data)
		if err != nil {
			return TransactionPreview{}, err
		}
		candidates, err = parser.ParseRows(rows)
		if err != nil {
			return TransactionPreview{}, err
		}
	default:
		return TransactionPreview{}, unsupportedFile(fileName)
	}

	summary := upload.SummarizeTransactions(candidates)
	recordUpload(kindTransactions, summary)
	metrics.CorrectedRows.Add(float64(summary.Corrected))
	s.log.Info().
		Str("file", fileName).
		Int("total", summary.Total).
		Int("valid", summary.Valid).
		Int("corrected", summary.Corrected).
		Msg("transaction upload parsed")

	return TransactionPreview{Transactions: candidates, Summary: summary}, nil
}

func (s *Service) PreviewProducts(ctx context.Context, fileName string, data []byte) (ProductPreview, error) {
	var (
		candidates []upload.ProductCandidate
		err        error
	)
	switch {
	case isCSV(fileName):
		text, decodeErr := upload.DecodeText(data)
		if decodeErr != nil {
			return ProductPreview{}, decodeErr
		}
		candidates, err = upload.ParseProductFile(text)
	case excel.IsWorkbook(fileName):
		rows, readErr := readWorkbook(data)
		if readErr != nil {
			return ProductPreview{}, readErr
		}
		candidates, err = upload.ParseProductRows(rows)
	default:
		return ProductPreview{}, unsupportedFile(fileName)
	}
	if err != nil {
		return ProductPreview{}, err
	}

	summary := upload.SummarizeProducts(candidates)
	recordUpload(kindProducts, summary)
	s.log.Info().
		Str("file", fileName).
		Int("total", summary.Total).
		Int("valid", summary.Valid).
		Msg("product upload parsed")

	return ProductPreview{Products: candidates, Summary: summary}, nil
}

// CommitTransactions inserts every valid candidate in one batch. Invalid
// candidates are dropped silently; transactions are never deduplicated.
func (s *Service) CommitTransactions(ctx context.Context, candidates []upload.TransactionCandidate) ([]domain.Transaction, error) {
	inputs := upload.ValidTransactions(candidates)
	if len(inputs) == 0 {
		return nil, validationError("no valid transactions to import")
	}

	now := s.now()
	txs := make([]domain.Transaction, 0, len(inputs))
	for _, input := range inputs {
		txs = append(txs, domain.NewTransaction(input, now))
	}
	created, err := s.store.CreateTransactions(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("%w: import transactions: %w", domain.ErrStorage, err)
	}
	s.log.Info().Int("created", len(created)).Msg("transactions imported")
	return created, nil
}

func (s *Service) CommitProducts(ctx context.Context, candidates []upload.ProductCandidate) (domain.BulkInsertResult, error) {
	inputs := upload.ValidProducts(candidates)
	if len(inputs) == 0 {
		return domain.BulkInsertResult{Created: []domain.Product{}, Duplicates: []string{}},
			validationError("no valid products to import")
	}
	return s.BulkInsertProducts(ctx, inputs)
}

func isCSV(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".csv")
}

func unsupportedFile(fileName string) error {
	return &upload.FormatError{Reason: fmt.Sprintf("Unsupported file type %q: upload a .csv or .xlsx file", filepath.Ext(fileName))}
}

func readWorkbook(data []byte) ([][]string, error) {
	rows, err := excel.ReadRows(bytes.NewReader(data))
	if err != nil {
		return nil, &upload.FormatError{Reason: "Could not read spreadsheet: " + err.Error()}
	}
	return rows, nil
}

func recordUpload(kind string, summary upload.Summary) {
	metrics.UploadRows.WithLabelValues(kind, "valid").Add(float64(summary.Valid))
	metrics.UploadRows.WithLabelValues(kind, "invalid").Add(float64(summary.Invalid))
}
