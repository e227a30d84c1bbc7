package receipt

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentLink holds the payee settings used to decorate receipts with
// a UPI deep link
type PaymentLink struct {
	PayeeAddress string // UPI virtual payment address
	PayeeName    string
	Currency     string
}

// URI builds a upi://pay link for the given amount. Returns an empty
// string when no payee address is configured.
func (p PaymentLink) URI(amount decimal.Decimal) string {
	if p.PayeeAddress == "" {
		return ""
	}

	currency := p.Currency
	if currency == "" {
		currency = "INR"
	}

	// Parameter order is fixed: pa, pn, am, cu
	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(url.QueryEscape(p.PayeeAddress))
	if p.PayeeName != "" {
		b.WriteString("&pn=")
		b.WriteString(url.QueryEscape(p.PayeeName))
	}
	b.WriteString("&am=")
	b.WriteString(amount.StringFixed(2))
	b.WriteString("&cu=")
	b.WriteString(currency)
	return b.String()
}
