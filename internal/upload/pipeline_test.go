package upload

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestParseFile_CorrectsAgainstCorpus(t *testing.T) {
	corpus := Corpus{
		Products:  []string{"Wireless Headphones"},
		Customers: []string{"John Smith"},
		Stores:    []string{"Tech Store Downtown"},
	}
	raw := "Date,Item,Customer,Store,Payment,Purchase,Notes\n" +
		`2024-01-15,Wireles Headphnes,Jon Smith,Tech Store,Credit Card,"Rp 1.125.000",Happy` + "\n"

	candidates, err := NewTransactionParser(corpus, 0.3).ParseFile(raw)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.True(t, c.IsValid, c.Errors)
	assert.Equal(t, "Wireless Headphones", c.ItemPurchased)
	assert.Equal(t, "Wireles Headphnes", c.ItemPurchasedOriginal)
	assert.Equal(t, "John Smith", c.CustomerName)
	assert.Equal(t, "Tech Store Downtown", c.StoreName)
	assert.Equal(t, "Credit Card", c.PaymentMethod)
	assert.Equal(t, int64(1125000), c.PurchasePrice)
	assert.Zero(t, c.SellingPrice)
	assert.Equal(t, int64(-1125000), c.Revenue)
	assert.Equal(t, "Happy", c.Notes)
	assert.Equal(t, []string{"item_purchased", "customer_name", "store_name"}, c.CorrectedFields)
}

func TestParseFile_HeaderIsNeverValidated(t *testing.T) {
	raw := "this header is,,,nonsense\n\n   \n2024-01-15,Mug,Sarah,Shop,Cash,1000\r\n\n"

	candidates, err := NewTransactionParser(Corpus{}, 0.3).ParseFile(raw)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].IsValid)
}

func TestParseFile_RowIndexesFollowDataLines(t *testing.T) {
	raw := "header\n2024-01-15,Mug,Sarah,Shop,Cash\nbad-date,Mug,Sarah,Shop,Cash\n"

	candidates, err := NewTransactionParser(Corpus{}, 0.3).ParseFile(raw)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, []string{"Row 2: Invalid date format"}, candidates[1].Errors)
}

func TestParseFile_TooFewLines(t *testing.T) {
	for _, raw := range []string{"", "\n\n  \n", "Date,Item,Customer\n"} {
		_, err := NewTransactionParser(Corpus{}, 0.3).ParseFile(raw)
		var formatErr *FormatError
		require.True(t, errors.As(err, &formatErr), "input %q", raw)
		assert.Equal(t, "File must contain at least a header row and one data row", formatErr.Reason)

		_, err = ParseProductFile(raw)
		assert.True(t, errors.As(err, &formatErr))
	}
}

func TestParseRows_DropsBlankSpreadsheetRows(t *testing.T) {
	rows := [][]string{
		{"Name", "Type", "Price"},
		{"", "", ""},
		{"Coffee Mug", "Kitchenware", "194850"},
		{},
	}

	candidates, err := ParseProductRows(rows)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Coffee Mug", candidates[0].Name)
}

func TestValidTransactions_KeepsOnlyValidRows(t *testing.T) {
	raw := "header\n2024-01-15,Mug,Sarah,Shop,Cash,1000,note\nbad,Mug,Sarah,Shop,Cash\n2024-01-17,Pen,Ana,Shop,QRIS,2000\n"
	candidates, err := NewTransactionParser(Corpus{}, 0.3).ParseFile(raw)
	require.NoError(t, err)

	inputs := ValidTransactions(candidates)
	require.Len(t, inputs, 2)
	require.NotNil(t, inputs[0].Notes)
	assert.Equal(t, "note", *inputs[0].Notes)
	assert.Nil(t, inputs[1].Notes)
	assert.Equal(t, "Pen", inputs[1].ItemPurchased)

	assert.Equal(t, Summary{Total: 3, Valid: 2, Invalid: 1}, SummarizeTransactions(candidates))
}

func TestValidTransactions_RechecksTypedFields(t *testing.T) {
	good := TransactionCandidate{
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ItemPurchased: "Mug",
		CustomerName:  "Sarah",
		StoreName:     "Shop",
		PaymentMethod: "Cash",
		PurchasePrice: 1000,
		IsValid:       true,
	}
	zeroDate := good
	zeroDate.Date = time.Time{}
	blankItem := good
	blankItem.ItemPurchased = "  "
	negative := good
	negative.PurchasePrice = -100
	blankPayment := good
	blankPayment.PaymentMethod = ""

	inputs := ValidTransactions([]TransactionCandidate{zeroDate, blankItem, negative, blankPayment, good})
	require.Len(t, inputs, 1)
	assert.Equal(t, int64(1000), inputs[0].PurchasePrice)
}

func TestValidProducts_RechecksTypedFields(t *testing.T) {
	inputs := ValidProducts([]ProductCandidate{
		{Name: "", Type: "", Price: -5, IsValid: true},
		{Name: "Widget", Type: "Tools", Price: 0, IsValid: true},
		{Name: "Widget", Type: " ", Price: 100, IsValid: true},
		{Name: " Stapler ", Type: "Stationery", Price: 25000, IsValid: true},
	})

	require.Len(t, inputs, 1)
	assert.Equal(t, "Stapler", inputs[0].Name)
}

func TestTemplates_ParseCleanly(t *testing.T) {
	transactions, err := NewTransactionParser(Corpus{}, 0.3).ParseFile(TransactionTemplateCSV())
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.True(t, transactions[0].IsValid, transactions[0].Errors)
	assert.Equal(t, int64(1125000), transactions[0].PurchasePrice)
	assert.Equal(t, int64(127500), transactions[1].PurchasePrice)

	products, err := ParseProductFile(ProductTemplateCSV())
	require.NoError(t, err)
	inputs := ValidProducts(products)
	require.Len(t, inputs, 3)
	assert.Equal(t, int64(1499850), inputs[0].Price)
	assert.Equal(t, "Business Notebook", inputs[2].Name)
	assert.True(t, strings.HasPrefix(TransactionTemplateCSV(), "Date,Item Purchase,Customer Name"))
}

func TestDecodeText(t *testing.T) {
	text, err := DecodeText([]byte("\xEF\xBB\xBFName,Type\n"))
	require.NoError(t, err)
	assert.Equal(t, "Name,Type\n", text)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Name,Type\n"))
	require.NoError(t, err)
	text, err = DecodeText(utf16)
	require.NoError(t, err)
	assert.Equal(t, "Name,Type\n", text)

	_, err = DecodeText([]byte{0xC3, 0x28, 0xA0})
	var formatErr *FormatError
	assert.True(t, errors.As(err, &formatErr))
}
