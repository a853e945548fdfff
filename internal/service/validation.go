package service

import (
	"fmt"
	"strings"

	"recap/internal/domain"
)

func validationError(problems ...string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(problems, "; "))
}

func normalizeTransactionInput(input domain.TransactionInput) domain.TransactionInput {
	input.ItemPurchased = strings.TrimSpace(input.ItemPurchased)
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.StoreName = strings.TrimSpace(input.StoreName)
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	if input.Notes != nil {
		notes := strings.TrimSpace(*input.Notes)
		if notes == "" {
			input.Notes = nil
		} else {
			input.Notes = &notes
		}
	}
	return input
}

// validateTransactionInput applies the entry form rules. Uploaded rows skip
// these; they are checked by the upload validator instead.
func validateTransactionInput(input domain.TransactionInput) error {
	var problems []string
	if input.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if input.ItemPurchased == "" {
		problems = append(problems, "item purchased is required")
	}
	if input.CustomerName == "" {
		problems = append(problems, "customer name is required")
	}
	if input.StoreName == "" {
		problems = append(problems, "store name is required")
	}
	if input.PaymentMethod == "" {
		problems = append(problems, "payment method is required")
	}
	if input.PurchasePrice <= 0 {
		problems = append(problems, "purchase price must be greater than 0")
	}
	if input.SellingPrice <= 0 {
		problems = append(problems, "selling price must be greater than 0")
	}
	if input.PurchasePrice > 0 && input.SellingPrice > 0 && input.SellingPrice < input.PurchasePrice {
		problems = append(problems, "selling price must not be lower than purchase price")
	}
	if len(problems) > 0 {
		return validationError(problems...)
	}
	return nil
}

func validateTransactionPatch(patch domain.TransactionPatch) error {
	var problems []string
	required := []struct {
		field string
		value *string
	}{
		{"item purchased", patch.ItemPurchased},
		{"customer name", patch.CustomerName},
		{"store name", patch.StoreName},
		{"payment method", patch.PaymentMethod},
	}
	for _, r := range required {
		if r.value != nil && strings.TrimSpace(*r.value) == "" {
			problems = append(problems, r.field+" must not be empty")
		}
	}
	if patch.Date != nil && patch.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if patch.PurchasePrice != nil && *patch.PurchasePrice < 0 {
		problems = append(problems, "purchase price must not be negative")
	}
	if patch.SellingPrice != nil && *patch.SellingPrice < 0 {
		problems = append(problems, "selling price must not be negative")
	}
	if len(problems) > 0 {
		return validationError(problems...)
	}
	return nil
}

func validateProductInput(input domain.ProductInput) error {
	var problems []string
	if input.Name == "" {
		problems = append(problems, "product name is required")
	}
	if input.Type == "" {
		problems = append(problems, "product type is required")
	}
	if input.Price <= 0 {
		problems = append(problems, "price must be greater than 0")
	}
	if input.Quantity < 0 {
		problems = append(problems, "quantity must not be negative")
	}
	if len(problems) > 0 {
		return validationError(problems...)
	}
	return nil
}

func validateProductPatch(patch domain.ProductPatch) error {
	var problems []string
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		problems = append(problems, "product name must not be empty")
	}
	if patch.Type != nil && strings.TrimSpace(*patch.Type) == "" {
		problems = append(problems, "product type must not be empty")
	}
	if patch.Price != nil && *patch.Price <= 0 {
		problems = append(problems, "price must be greater than 0")
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		problems = append(problems, "quantity must not be negative")
	}
	if len(problems) > 0 {
		return validationError(problems...)
	}
	return nil
}
