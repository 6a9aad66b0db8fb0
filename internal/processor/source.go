package processor

import (
	"context"
	"time"
)

// Source is the read-only remote data source. The live implementation
// wraps the Stripe SDK; tests substitute an in-memory fake.
type Source interface {
	Lister

	GetCharge(ctx context.Context, id string) (Charge, error)
	GetRefund(ctx context.Context, id string) (Refund, error)
	GetDispute(ctx context.Context, id string) (Dispute, error)
	GetPaymentIntent(ctx context.Context, id string) (PaymentIntent, error)
	GetInvoice(ctx context.Context, id string) (Invoice, error)
	GetProduct(ctx context.Context, id string) (Product, error)

	// FindCheckoutSession returns the checkout session created for the
	// given payment intent, with its line items, or ok=false when the
	// payment did not go through a checkout session.
	FindCheckoutSession(ctx context.Context, paymentIntentID string) (CheckoutSession, bool, error)
}

// Lister covers the paginated listings that drive a report run.
type Lister interface {
	// ListPayouts returns all payouts created in [from, to), in listing order.
	ListPayouts(ctx context.Context, from, to time.Time) ([]Payout, error)

	// ListTransactions returns all balance transactions belonging to the
	// payout, in listing order.
	ListTransactions(ctx context.Context, payoutID string) ([]Transaction, error)
}
