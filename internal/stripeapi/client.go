// Package stripeapi implements processor.Source on the official Stripe SDK.
// Listing endpoints are cursor-paginated; the SDK iterators advance the
// cursor page by page until the has-more flag clears.
package stripeapi

import (
	"context"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/dvloznov/stripe-recon/internal/processor"
)

const pageSize = 100

// Client must keep satisfying the full source contract the engine runs on.
var _ processor.Source = (*Client)(nil)

// Client is a read-only Stripe API client scoped to one account.
type Client struct {
	sc *client.API
}

// New constructs a Client authenticated with the given secret key.
func New(apiKey string) *Client {
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return &Client{sc: sc}
}

// ListPayouts returns all payouts created in [from, to), in listing order.
func (c *Client) ListPayouts(ctx context.Context, from, to time.Time) ([]processor.Payout, error) {
	params := &stripe.PayoutListParams{
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: from.Unix(),
			LesserThan:         to.Unix(),
		},
	}
	params.Context = ctx
	params.Limit = stripe.Int64(pageSize)

	var out []processor.Payout
	it := c.sc.Payouts.List(params)
	for it.Next() {
		out = append(out, payoutFromStripe(it.Payout()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	return out, nil
}

// ListTransactions returns all balance transactions attached to the payout.
func (c *Client) ListTransactions(ctx context.Context, payoutID string) ([]processor.Transaction, error) {
	params := &stripe.BalanceTransactionListParams{
		Payout: stripe.String(payoutID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(pageSize)

	var out []processor.Transaction
	it := c.sc.BalanceTransactions.List(params)
	for it.Next() {
		out = append(out, transactionFromStripe(it.BalanceTransaction()))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list transactions for payout %s: %w", payoutID, err)
	}
	return out, nil
}

func (c *Client) GetCharge(ctx context.Context, id string) (processor.Charge, error) {
	params := &stripe.ChargeParams{}
	params.Context = ctx
	ch, err := c.sc.Charges.Get(id, params)
	if err != nil {
		return processor.Charge{}, fmt.Errorf("get charge %s: %w", id, err)
	}
	return chargeFromStripe(ch), nil
}

func (c *Client) GetRefund(ctx context.Context, id string) (processor.Refund, error) {
	params := &stripe.RefundParams{}
	params.Context = ctx
	re, err := c.sc.Refunds.Get(id, params)
	if err != nil {
		return processor.Refund{}, fmt.Errorf("get refund %s: %w", id, err)
	}
	return refundFromStripe(re), nil
}

func (c *Client) GetDispute(ctx context.Context, id string) (processor.Dispute, error) {
	params := &stripe.DisputeParams{}
	params.Context = ctx
	dp, err := c.sc.Disputes.Get(id, params)
	if err != nil {
		return processor.Dispute{}, fmt.Errorf("get dispute %s: %w", id, err)
	}
	return disputeFromStripe(dp), nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, id string) (processor.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := c.sc.PaymentIntents.Get(id, params)
	if err != nil {
		return processor.PaymentIntent{}, fmt.Errorf("get payment intent %s: %w", id, err)
	}
	return paymentIntentFromStripe(pi), nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (processor.Invoice, error) {
	params := &stripe.InvoiceParams{}
	params.Context = ctx
	in, err := c.sc.Invoices.Get(id, params)
	if err != nil {
		return processor.Invoice{}, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return invoiceFromStripe(in), nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (processor.Product, error) {
	params := &stripe.ProductParams{}
	params.Context = ctx
	p, err := c.sc.Products.Get(id, params)
	if err != nil {
		return processor.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return productFromStripe(p), nil
}

// FindCheckoutSession looks for a checkout session created for the payment
// intent and loads its line items. At most one session exists per intent;
// none means the payment was invoice-based.
func (c *Client) FindCheckoutSession(ctx context.Context, paymentIntentID string) (processor.CheckoutSession, bool, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	var session *stripe.CheckoutSession
	it := c.sc.CheckoutSessions.List(params)
	if it.Next() {
		session = it.CheckoutSession()
	}
	if err := it.Err(); err != nil {
		return processor.CheckoutSession{}, false, fmt.Errorf("list checkout sessions for %s: %w", paymentIntentID, err)
	}
	if session == nil {
		return processor.CheckoutSession{}, false, nil
	}

	liParams := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(session.ID),
	}
	liParams.Context = ctx

	out := processor.CheckoutSession{ID: session.ID}
	lit := c.sc.CheckoutSessions.ListLineItems(liParams)
	for lit.Next() {
		out.Lines = append(out.Lines, lineItemFromStripe(lit.LineItem()))
	}
	if err := lit.Err(); err != nil {
		return processor.CheckoutSession{}, false, fmt.Errorf("list line items for session %s: %w", session.ID, err)
	}
	return out, true, nil
}
