// Package processor defines the domain view of the payment processor's
// records. These are deliberately slim projections of the remote objects:
// only the fields the reconciliation walk needs, in a shape that is stable
// under JSON round-trips so they can live in the record cache.
package processor

import "time"

// Payout is a bank settlement batch. Amount is in minor currency units.
type Payout struct {
	ID      string    `json:"id"`
	Amount  int64     `json:"amount"`
	Created time.Time `json:"created"`
}

// Transaction is one balance-ledger entry inside a payout. Category is the
// processor's reporting category ("charge", "refund", ...). Source links to
// the charge/refund/dispute that caused the entry; it is empty for
// bookkeeping rows such as the payout itself or fees.
type Transaction struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Source   string `json:"source"`
	Amount   int64  `json:"amount"`
	Fee      int64  `json:"fee"`
	Net      int64  `json:"net"`
}

// Charge links a successful payment to its payment intent and, for
// invoice-based payments, directly to the invoice.
type Charge struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Invoice       string `json:"invoice"`
}

// Refund links back to the payment intent of the refunded payment.
type Refund struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
}

// Dispute links to the disputed charge.
type Dispute struct {
	ID     string `json:"id"`
	Charge string `json:"charge"`
}

// PaymentIntent references an invoice for subscription payments. One-off
// checkout payments have no invoice; their products are found through the
// checkout session instead.
type PaymentIntent struct {
	ID      string `json:"id"`
	Invoice string `json:"invoice"`
}

// LineItem is a single purchased line on an invoice or checkout session.
type LineItem struct {
	PriceID   string `json:"price_id"`
	ProductID string `json:"product_id"`
}

// Invoice carries its line items inline; the reconciled scenarios expect
// exactly one.
type Invoice struct {
	ID    string     `json:"id"`
	Lines []LineItem `json:"lines"`
}

// CheckoutSession is a one-off hosted payment flow with its line items.
type CheckoutSession struct {
	ID    string     `json:"id"`
	Lines []LineItem `json:"lines"`
}

// Product is the sellable catalog entry. Metadata may carry "email" (payee
// contact shown on the report) and "rate" (payout rate as a fraction).
type Product struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RecordID implementations let the generic resolver verify that a record
// answers to the ID it was requested under.

func (c Charge) RecordID() string        { return c.ID }
func (r Refund) RecordID() string        { return r.ID }
func (d Dispute) RecordID() string       { return d.ID }
func (p PaymentIntent) RecordID() string { return p.ID }
func (i Invoice) RecordID() string       { return i.ID }
func (p Product) RecordID() string       { return p.ID }
