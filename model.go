// Package invoicelayout ties line items, a template scheme and the layout
// engine together into renderable invoices.
package invoicelayout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aerissecure/invoicelayout/layout"
)

var (
	ErrMissingNumber = errors.New("invoice: number is required")
	ErrMissingClient = errors.New("invoice: client name is required")
)

// Client is the billed party as printed in the invoice header.
type Client struct {
	Name    string   `json:"name" yaml:"name"`
	Address []string `json:"address,omitempty" yaml:"address,omitempty"`
	Email   string   `json:"email,omitempty" yaml:"email,omitempty"`
}

func (c Client) String() string {
	return strings.Join(append([]string{c.Name}, c.Address...), ", ")
}

// Invoice is one billable document. Items may be empty; an invoice without
// items still renders as a complete single page.
type Invoice struct {
	Number   string            `json:"number"`
	Client   Client            `json:"client"`
	IssuedAt time.Time         `json:"issuedAt"`
	Items    []layout.LineItem `json:"items"`
}

func (inv Invoice) String() string {
	return fmt.Sprintf("Number: %s, Client: %s, Issued: %s, Items: %d", inv.Number, inv.Client.Name, inv.IssuedAt.Format(time.DateOnly), len(inv.Items))
}

// Amount is unit price times quantity, rounded to cents.
func Amount(li layout.LineItem) float64 {
	return math.Round(li.UnitPrice*li.Quantity*100) / 100
}

// Total sums the item amounts.
func (inv Invoice) Total() float64 {
	var total float64
	for _, li := range inv.Items {
		total += Amount(li)
	}
	return math.Round(total*100) / 100
}

// Validate checks the header fields and every line item.
func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.Number) == "" {
		return ErrMissingNumber
	}
	if strings.TrimSpace(inv.Client.Name) == "" {
		return ErrMissingClient
	}
	for i, li := range inv.Items {
		if err := li.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// NewNumber generates an invoice reference for documents created without one.
// Format: INV-YYYY-XXXXXXXX (e.g., INV-2026-9F1C02AB)
func NewNumber(issued time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("INV-%d-%s", issued.Year(), id[:8])
}

// ReadInvoices decodes a JSON array of invoices, or a single invoice object.
func ReadInvoices(r io.Reader) ([]Invoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoices: %w", err)
	}
	var many []Invoice
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one Invoice
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("failed to parse invoices: %w", err)
	}
	return []Invoice{one}, nil
}

// LoadInvoices reads invoices from a JSON file.
func LoadInvoices(path string) ([]Invoice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open invoices: %w", err)
	}
	defer f.Close()
	return ReadInvoices(f)
}
