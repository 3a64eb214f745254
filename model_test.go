package invoicelayout

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/invoicelayout/layout"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		item layout.LineItem
		want float64
	}{
		{layout.LineItem{UnitPrice: 19.99, Quantity: 3}, 59.97},
		{layout.LineItem{UnitPrice: 120, Quantity: 1.5}, 180},
		{layout.LineItem{UnitPrice: 0.333, Quantity: 3}, 1},
		{layout.LineItem{UnitPrice: 0, Quantity: 2}, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Amount(tt.item), 1e-9, "%+v", tt.item)
	}
}

func TestInvoiceTotal(t *testing.T) {
	inv := Invoice{Items: []layout.LineItem{
		{UnitPrice: 19.99, Quantity: 3},
		{UnitPrice: 0.1, Quantity: 3},
		{UnitPrice: 100, Quantity: 0.5},
	}}
	assert.InDelta(t, 110.27, inv.Total(), 1e-9)
	assert.Zero(t, Invoice{}.Total())
}

func TestInvoiceValidate(t *testing.T) {
	valid := Invoice{Number: "INV-1", Client: Client{Name: "ACME"}, Items: []layout.LineItem{{Title: "a", UnitPrice: 1, Quantity: 1}}}
	require.NoError(t, valid.Validate())

	noItems := valid
	noItems.Items = nil
	assert.NoError(t, noItems.Validate())

	noNumber := valid
	noNumber.Number = "  "
	assert.ErrorIs(t, noNumber.Validate(), ErrMissingNumber)

	noClient := valid
	noClient.Client.Name = ""
	assert.ErrorIs(t, noClient.Validate(), ErrMissingClient)

	badItem := valid
	badItem.Items = []layout.LineItem{{Title: "a", UnitPrice: 1, Quantity: 1}, {Title: "b", UnitPrice: -1, Quantity: 1}}
	err := badItem.Validate()
	assert.ErrorIs(t, err, layout.ErrNegativePrice)
	assert.Contains(t, err.Error(), "item 2")
}

func TestNewNumber(t *testing.T) {
	issued := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	a, b := NewNumber(issued), NewNumber(issued)
	assert.Regexp(t, regexp.MustCompile(`^INV-2026-[0-9A-F]{8}$`), a)
	assert.NotEqual(t, a, b)
}

func TestReadInvoices(t *testing.T) {
	many, err := ReadInvoices(strings.NewReader(`[
		{"number": "INV-1", "client": {"name": "ACME"}, "issuedAt": "2026-10-01T00:00:00Z",
		 "items": [{"title": "Audit", "feeType": "fixed", "unitPrice": 900, "quantity": 1, "quantityUnit": "pc"}]},
		{"number": "INV-2", "client": {"name": "Globex"}, "items": []}
	]`))
	require.NoError(t, err)
	require.Len(t, many, 2)
	assert.Equal(t, "ACME", many[0].Client.Name)
	assert.Equal(t, "Audit", many[0].Items[0].Title)
	assert.Equal(t, 2026, many[0].IssuedAt.Year())

	one, err := ReadInvoices(strings.NewReader(`{"number": "INV-3", "client": {"name": "Initech"}}`))
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "INV-3", one[0].Number)

	_, err = ReadInvoices(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestClientString(t *testing.T) {
	c := Client{Name: "ACME GmbH", Address: []string{"Hauptstr. 1", "70173 Stuttgart"}}
	assert.Equal(t, "ACME GmbH, Hauptstr. 1, 70173 Stuttgart", c.String())
}
