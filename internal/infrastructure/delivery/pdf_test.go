package delivery

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neximp/backend/internal/domain/filing"
	"github.com/neximp/backend/internal/domain/receipt"
)

func TestDocumentDispatcher_Deliver(t *testing.T) {
	t.Run("produces a pdf payload", func(t *testing.T) {
		d := NewDocumentDispatcher(NewQRCodeEncoder())

		result, err := d.Deliver(context.Background(), testModel(t), "")
		require.NoError(t, err)

		assert.Equal(t, receipt.ChannelDocument, result.Channel)
		assert.Equal(t, "receipt-INV-2026-007.pdf", result.Detail)
		require.NotEmpty(t, result.Payload)
		assert.Equal(t, "%PDF", string(result.Payload[:4]))
	})

	t.Run("fifty items paginate without truncation", func(t *testing.T) {
		items := make([]filing.ItemInput, 0, 50)
		for i := 0; i < 50; i++ {
			items = append(items, filing.ItemInput{
				Description: fmt.Sprintf("Line item %02d", i+1),
				Quantity:    int64(i + 1),
				UnitPrice:   decimal.NewFromFloat(1.25),
			})
		}
		f, err := filing.NewFiling("SHP-BULK", "INV-BULK", "Mundra", decimal.NewFromInt(1000), "", items)
		require.NoError(t, err)

		renderer := receipt.NewRenderer(receipt.PaymentLink{PayeeAddress: "neximp@upi"})
		model, err := renderer.Render(f)
		require.NoError(t, err)

		d := NewDocumentDispatcher(NewQRCodeEncoder())
		result, err := d.Deliver(context.Background(), model, "")
		require.NoError(t, err)

		// a single A4 page cannot hold 50 rows plus header and totals
		assert.Greater(t, len(result.Payload), 0)
		assert.Contains(t, string(result.Payload), "/Count 2")
	})

	t.Run("no payment uri skips the qr block", func(t *testing.T) {
		model := testModel(t)
		model.PaymentURI = ""

		d := NewDocumentDispatcher(NewQRCodeEncoder())
		result, err := d.Deliver(context.Background(), model, "")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Payload)
	})
}

func TestQRCodeEncoder_Encode(t *testing.T) {
	png, err := NewQRCodeEncoder().Encode("upi://pay?pa=neximp%40upi&am=10.00&cu=INR", 256)
	require.NoError(t, err)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
