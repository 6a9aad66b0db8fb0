package recon

import "fmt"

// PayoutMismatchError reports that the summed transaction nets for a payout
// disagree with the amount the processor says landed in the bank. The
// transaction listing is incomplete or the processor's bookkeeping is
// inconsistent; either way the report would be wrong, so the run aborts.
type PayoutMismatchError struct {
	PayoutID string
	Reported int64
	Summed   int64
}

func (e *PayoutMismatchError) Error() string {
	return fmt.Sprintf("payout %s: reported amount %d but transactions sum to %d", e.PayoutID, e.Reported, e.Summed)
}

// UnknownCategoryError reports a transaction whose reporting category the
// engine does not recognize. New processor categories must never be silently
// dropped, so this is fatal and carries the raw transaction.
type UnknownCategoryError struct {
	Transaction string
	Category    string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("transaction %s: unknown reporting category %q", e.Transaction, e.Category)
}

// UnresolvableAttributionError reports a transaction whose causal chain does
// not reach a product: a missing source record, a missing invoice, or an
// invoice/session with the wrong number of line items.
type UnresolvableAttributionError struct {
	Transaction string
	Reason      string
}

func (e *UnresolvableAttributionError) Error() string {
	return fmt.Sprintf("transaction %s: cannot attribute to a product: %s", e.Transaction, e.Reason)
}

// InconsistentProductNameError reports the same product ID observed with two
// different display names, which indicates corrupted or mixed-up catalog
// data.
type InconsistentProductNameError struct {
	ProductID string
	Stored    string
	Got       string
}

func (e *InconsistentProductNameError) Error() string {
	return fmt.Sprintf("product %s: name changed from %q to %q", e.ProductID, e.Stored, e.Got)
}
