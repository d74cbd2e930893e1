package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	appconfig "github.com/jhoicas/shipping-dashboard/pkg/config"
)

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator(appconfig.InvoiceConfig{SellerName: "TROPICAL FRUIT EXPORT CORP.", BankName: "BANK"})
	inv := &dto.InvoiceDTO{
		InvoiceNo: "SB-0001", InvoiceDate: "2025-02-01", CustomerName: "SB TRADING", Item: "BANANAS",
		Currency: "USD", TotalCartons: 1080, Total: decimal.RequireFromString("9720"),
		Lines: []dto.InvoiceLineDTO{{
			Description: "FRESH CAVENDISH BANANAS 13.5 KG GRADE A", Quantity: 1080,
			UnitPrice: decimal.RequireFromString("9"), Amount: decimal.RequireFromString("9720"),
		}},
		Shipment: dto.ShipmentDetailDTO{Containers: []string{"MSKU1234567"}, ETD: "2025-01-27"},
	}

	b, err := g.GenerateInvoicePDF(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestMoneyFormatting(t *testing.T) {
	g := NewMarotoPDFGenerator(appconfig.InvoiceConfig{})
	assert.Equal(t, "12,345.60", g.money(decimal.RequireFromString("12345.6")))
	assert.Equal(t, "0.00", g.money(decimal.Zero))
	assert.Equal(t, "1,080", g.quantity(1080))
}
