// Package resolver memoizes point lookups against the remote data source.
// All record kinds share one resolution shape (cache check, fetch on miss,
// cache fill, identity check), so a single generic function does the work
// and the per-kind methods only bind the fetch capability.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dvloznov/stripe-recon/internal/processor"
)

// Cache is the key/value contract the resolver needs. The SQLite store in
// internal/cache satisfies it; tests inject an in-memory map.
type Cache interface {
	Get(id string) ([]byte, bool, error)
	Put(id string, record []byte) error
}

// Record is any domain record that can state its own ID.
type Record interface {
	RecordID() string
}

// Resolver resolves processor records by ID through the cache.
type Resolver struct {
	cache  Cache
	source processor.Source
}

// New constructs a Resolver over the given cache and remote source.
func New(c Cache, src processor.Source) *Resolver {
	return &Resolver{cache: c, source: src}
}

// resolve is the one lookup path every record kind goes through. A fetched
// record is cached even though lookups are nominally idempotent, purely to
// avoid repeat remote calls on later runs.
func resolve[T Record](ctx context.Context, r *Resolver, id string, fetch func(context.Context, string) (T, error)) (T, error) {
	var zero T

	raw, ok, err := r.cache.Get(id)
	if err != nil {
		return zero, err
	}

	var rec T
	if ok {
		if err := json.Unmarshal(raw, &rec); err != nil {
			return zero, fmt.Errorf("decode cached record %q: %w", id, err)
		}
	} else {
		rec, err = fetch(ctx, id)
		if err != nil {
			return zero, &RemoteFetchError{ID: id, Err: err}
		}
		encoded, err := json.Marshal(rec)
		if err != nil {
			return zero, fmt.Errorf("encode record %q: %w", id, err)
		}
		if err := r.cache.Put(id, encoded); err != nil {
			return zero, err
		}
	}

	if rec.RecordID() != id {
		return zero, &IdentityMismatchError{Requested: id, Got: rec.RecordID()}
	}
	return rec, nil
}

// Charge resolves a charge by ID.
func (r *Resolver) Charge(ctx context.Context, id string) (processor.Charge, error) {
	return resolve(ctx, r, id, r.source.GetCharge)
}

// Refund resolves a refund by ID.
func (r *Resolver) Refund(ctx context.Context, id string) (processor.Refund, error) {
	return resolve(ctx, r, id, r.source.GetRefund)
}

// Dispute resolves a dispute by ID.
func (r *Resolver) Dispute(ctx context.Context, id string) (processor.Dispute, error) {
	return resolve(ctx, r, id, r.source.GetDispute)
}

// PaymentIntent resolves a payment intent by ID.
func (r *Resolver) PaymentIntent(ctx context.Context, id string) (processor.PaymentIntent, error) {
	return resolve(ctx, r, id, r.source.GetPaymentIntent)
}

// Invoice resolves an invoice by ID.
func (r *Resolver) Invoice(ctx context.Context, id string) (processor.Invoice, error) {
	return resolve(ctx, r, id, r.source.GetInvoice)
}

// Product resolves a product by ID.
func (r *Resolver) Product(ctx context.Context, id string) (processor.Product, error) {
	return resolve(ctx, r, id, r.source.GetProduct)
}

// CheckoutSession looks up the checkout session for a payment intent.
// Sessions are not cached: they are keyed by payment intent rather than by
// their own ID, and a miss (no session) is a meaningful answer.
func (r *Resolver) CheckoutSession(ctx context.Context, paymentIntentID string) (processor.CheckoutSession, bool, error) {
	sess, ok, err := r.source.FindCheckoutSession(ctx, paymentIntentID)
	if err != nil {
		return processor.CheckoutSession{}, false, &RemoteFetchError{ID: paymentIntentID, Err: err}
	}
	return sess, ok, nil
}
