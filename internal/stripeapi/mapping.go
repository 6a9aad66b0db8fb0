package stripeapi

import (
	"time"

	stripe "github.com/stripe/stripe-go/v81"

	"github.com/dvloznov/stripe-recon/internal/processor"
)

// The SDK returns expandable references as partially-populated structs with
// only the ID set. The mappers below keep just the IDs and the few scalar
// fields the reconciliation walk reads.

func payoutFromStripe(p *stripe.Payout) processor.Payout {
	return processor.Payout{
		ID:      p.ID,
		Amount:  p.Amount,
		Created: time.Unix(p.Created, 0).UTC(),
	}
}

func transactionFromStripe(t *stripe.BalanceTransaction) processor.Transaction {
	out := processor.Transaction{
		ID:       t.ID,
		Category: string(t.Type),
		Amount:   t.Amount,
		Fee:      t.Fee,
		Net:      t.Net,
	}
	if t.Source != nil {
		out.Source = t.Source.ID
	}
	return out
}

func chargeFromStripe(c *stripe.Charge) processor.Charge {
	out := processor.Charge{ID: c.ID}
	if c.PaymentIntent != nil {
		out.PaymentIntent = c.PaymentIntent.ID
	}
	if c.Invoice != nil {
		out.Invoice = c.Invoice.ID
	}
	return out
}

func refundFromStripe(r *stripe.Refund) processor.Refund {
	out := processor.Refund{ID: r.ID}
	if r.PaymentIntent != nil {
		out.PaymentIntent = r.PaymentIntent.ID
	}
	return out
}

func disputeFromStripe(d *stripe.Dispute) processor.Dispute {
	out := processor.Dispute{ID: d.ID}
	if d.Charge != nil {
		out.Charge = d.Charge.ID
	}
	return out
}

func paymentIntentFromStripe(p *stripe.PaymentIntent) processor.PaymentIntent {
	out := processor.PaymentIntent{ID: p.ID}
	if p.Invoice != nil {
		out.Invoice = p.Invoice.ID
	}
	return out
}

func invoiceFromStripe(in *stripe.Invoice) processor.Invoice {
	out := processor.Invoice{ID: in.ID}
	if in.Lines == nil {
		return out
	}
	for _, line := range in.Lines.Data {
		item := processor.LineItem{}
		if line.Price != nil {
			item.PriceID = line.Price.ID
			if line.Price.Product != nil {
				item.ProductID = line.Price.Product.ID
			}
		}
		out.Lines = append(out.Lines, item)
	}
	return out
}

func lineItemFromStripe(li *stripe.LineItem) processor.LineItem {
	out := processor.LineItem{}
	if li.Price != nil {
		out.PriceID = li.Price.ID
		if li.Price.Product != nil {
			out.ProductID = li.Price.Product.ID
		}
	}
	return out
}

func productFromStripe(p *stripe.Product) processor.Product {
	return processor.Product{
		ID:       p.ID,
		Name:     p.Name,
		Metadata: p.Metadata,
	}
}
