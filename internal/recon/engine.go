// Package recon implements the reconciliation core: walking each payout's
// balance transactions, attributing every net amount to a product through
// the record chain, and allocating the aggregate processor fee across
// products.
package recon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/stripe-recon/internal/logger"
	"github.com/dvloznov/stripe-recon/internal/processor"
)

// Reporting categories the engine understands. "payment" is an alias the
// processor emits for "charge" on older accounts, and "payment_refund" is a
// retired refund variant that tolerated any invoice line count; both are
// kept distinct rather than folded into their modern counterparts.
const (
	categoryCharge        = "charge"
	categoryPayment       = "payment"
	categoryRefund        = "refund"
	categoryPaymentRefund = "payment_refund"
	categoryDispute       = "dispute"
	categoryFee           = "stripe_fee"
	categoryPayout        = "payout"

	// reservePrefix matches the balance-minimum-reserve category family.
	// These entries net to zero over time and are tracked as pseudo-products
	// for audit visibility.
	reservePrefix = "payout_minimum_balance"
)

// RecordSource is the cached record lookup surface the engine attributes
// through. *resolver.Resolver implements it.
type RecordSource interface {
	Charge(ctx context.Context, id string) (processor.Charge, error)
	Refund(ctx context.Context, id string) (processor.Refund, error)
	Dispute(ctx context.Context, id string) (processor.Dispute, error)
	PaymentIntent(ctx context.Context, id string) (processor.PaymentIntent, error)
	Invoice(ctx context.Context, id string) (processor.Invoice, error)
	Product(ctx context.Context, id string) (processor.Product, error)
	CheckoutSession(ctx context.Context, paymentIntentID string) (processor.CheckoutSession, bool, error)
}

// Engine attributes balance transactions to products and accumulates them
// into a ledger. It is strictly sequential; the first error aborts the run.
type Engine struct {
	lister  processor.Lister
	records RecordSource
	ledger  *Ledger
}

// NewEngine constructs an engine over the listing source and the cached
// record lookups.
func NewEngine(lister processor.Lister, records RecordSource) *Engine {
	return &Engine{
		lister:  lister,
		records: records,
		ledger:  NewLedger(),
	}
}

// Run lists every payout created in [from, to), reconciles each one, and
// returns the accumulated ledger.
func (e *Engine) Run(ctx context.Context, from, to time.Time) (*Ledger, error) {
	log := logger.FromContext(ctx)

	payouts, err := e.lister.ListPayouts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	log.Info().
		Time("from", from).
		Time("to", to).
		Int("payouts", len(payouts)).
		Msg("Listed payouts")

	for _, payout := range payouts {
		if err := e.reconcilePayout(ctx, payout); err != nil {
			return nil, err
		}
		log.Info().
			Str("payout_id", payout.ID).
			Int64("payout_amount", payout.Amount).
			Int64("ledger_total", e.ledger.Total()).
			Msg("Payout reconciled")
	}

	return e.ledger, nil
}

// reconcilePayout checks the payout invariant and attributes each of its
// transactions.
func (e *Engine) reconcilePayout(ctx context.Context, payout processor.Payout) error {
	transactions, err := e.lister.ListTransactions(ctx, payout.ID)
	if err != nil {
		return err
	}

	// The payout's own bookkeeping row carries the negative settlement
	// amount; everything else must sum to what the bank received. Checked
	// up front so a broken listing never produces a half-attributed ledger.
	var sum int64
	for _, t := range transactions {
		if t.Category == categoryPayout {
			continue
		}
		sum += t.Net
	}
	if sum != payout.Amount {
		return &PayoutMismatchError{PayoutID: payout.ID, Reported: payout.Amount, Summed: sum}
	}

	for _, t := range transactions {
		if err := e.attribute(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// attribute classifies one transaction by reporting category and posts its
// net amount to the responsible product. Every category has exactly one
// resolution path; anything unrecognized is fatal.
func (e *Engine) attribute(ctx context.Context, t processor.Transaction) error {
	switch {
	case t.Category == categoryPayout:
		// The settlement row itself; nothing earned or lost.
		return nil

	case strings.HasPrefix(t.Category, reservePrefix):
		return e.ledger.Add(pseudoProduct(t.Category), t.Net)

	case t.Category == categoryFee:
		return e.ledger.Add(pseudoProduct(categoryFee), t.Net)

	case t.Category == categoryRefund:
		return e.attributeRefund(ctx, t)

	case t.Category == categoryPaymentRefund:
		return e.attributePaymentRefund(ctx, t)

	case t.Category == categoryCharge, t.Category == categoryPayment:
		return e.attributeCharge(ctx, t)

	case t.Category == categoryDispute:
		return e.attributeDispute(ctx, t)

	default:
		return &UnknownCategoryError{Transaction: t.ID, Category: t.Category}
	}
}

// attributeRefund follows refund → payment intent → invoice → price →
// product. The invoice must carry exactly one line item.
func (e *Engine) attributeRefund(ctx context.Context, t processor.Transaction) error {
	if t.Source == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "refund has no source record"}
	}
	refund, err := e.records.Refund(ctx, t.Source)
	if err != nil {
		return err
	}
	intent, err := e.records.PaymentIntent(ctx, refund.PaymentIntent)
	if err != nil {
		return err
	}
	if intent.Invoice == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "refunded payment intent has no invoice"}
	}
	invoice, err := e.records.Invoice(ctx, intent.Invoice)
	if err != nil {
		return err
	}
	line, err := e.singleLine(t, invoice.Lines, "invoice "+invoice.ID)
	if err != nil {
		return err
	}
	return e.post(ctx, line, t.Net)
}

// attributePaymentRefund handles the retired refund variant. It walks the
// same chain but posts every invoice line it finds; whether the one-line
// restriction applies here was never settled before the category was
// retired, so the observed tolerant behavior is preserved.
func (e *Engine) attributePaymentRefund(ctx context.Context, t processor.Transaction) error {
	if t.Source == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "refund has no source record"}
	}
	refund, err := e.records.Refund(ctx, t.Source)
	if err != nil {
		return err
	}
	intent, err := e.records.PaymentIntent(ctx, refund.PaymentIntent)
	if err != nil {
		return err
	}
	if intent.Invoice == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "refunded payment intent has no invoice"}
	}
	invoice, err := e.records.Invoice(ctx, intent.Invoice)
	if err != nil {
		return err
	}
	for _, line := range invoice.Lines {
		if err := e.post(ctx, line, t.Net); err != nil {
			return err
		}
	}
	return nil
}

// attributeCharge follows charge → payment intent, then branches: a
// checkout session (one-off payment) wins if one exists, otherwise the
// payment intent's invoice (subscription payment). Exactly one branch must
// apply.
func (e *Engine) attributeCharge(ctx context.Context, t processor.Transaction) error {
	if t.Source == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "charge has no source record"}
	}
	charge, err := e.records.Charge(ctx, t.Source)
	if err != nil {
		return err
	}
	if charge.PaymentIntent == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "charge " + charge.ID + " has no payment intent"}
	}
	intent, err := e.records.PaymentIntent(ctx, charge.PaymentIntent)
	if err != nil {
		return err
	}

	session, ok, err := e.records.CheckoutSession(ctx, intent.ID)
	if err != nil {
		return err
	}
	if ok {
		line, err := e.singleLine(t, session.Lines, "checkout session "+session.ID)
		if err != nil {
			return err
		}
		return e.post(ctx, line, t.Net)
	}

	if intent.Invoice == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "payment intent " + intent.ID + " has neither checkout session nor invoice"}
	}
	invoice, err := e.records.Invoice(ctx, intent.Invoice)
	if err != nil {
		return err
	}
	line, err := e.singleLine(t, invoice.Lines, "invoice "+invoice.ID)
	if err != nil {
		return err
	}
	return e.post(ctx, line, t.Net)
}

// attributeDispute follows dispute → charge → the charge's invoice → price
// → product.
func (e *Engine) attributeDispute(ctx context.Context, t processor.Transaction) error {
	if t.Source == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "dispute has no source record"}
	}
	dispute, err := e.records.Dispute(ctx, t.Source)
	if err != nil {
		return err
	}
	charge, err := e.records.Charge(ctx, dispute.Charge)
	if err != nil {
		return err
	}
	if charge.Invoice == "" {
		return &UnresolvableAttributionError{Transaction: t.ID, Reason: "disputed charge " + charge.ID + " has no invoice"}
	}
	invoice, err := e.records.Invoice(ctx, charge.Invoice)
	if err != nil {
		return err
	}
	line, err := e.singleLine(t, invoice.Lines, "invoice "+invoice.ID)
	if err != nil {
		return err
	}
	return e.post(ctx, line, t.Net)
}

// singleLine enforces the exactly-one-line-item expectation on the
// container holding the price reference.
func (e *Engine) singleLine(t processor.Transaction, lines []processor.LineItem, where string) (processor.LineItem, error) {
	if len(lines) != 1 {
		return processor.LineItem{}, &UnresolvableAttributionError{
			Transaction: t.ID,
			Reason:      fmt.Sprintf("%s has %d line items, want exactly 1", where, len(lines)),
		}
	}
	return lines[0], nil
}

// post resolves the line's product and adds the net amount to the ledger.
func (e *Engine) post(ctx context.Context, line processor.LineItem, net int64) error {
	product, err := e.records.Product(ctx, line.ProductID)
	if err != nil {
		return err
	}
	return e.ledger.Add(product, net)
}

// pseudoProduct models bookkeeping categories (fees, reserve holds) as
// products whose id and name are the category string, so the ledger stays
// the single source of truth for every balance movement.
func pseudoProduct(category string) processor.Product {
	return processor.Product{ID: category, Name: category}
}
