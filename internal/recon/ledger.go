package recon

import "github.com/dvloznov/stripe-recon/internal/processor"

// Entry is one product's cumulative net revenue in minor currency units.
type Entry struct {
	Product processor.Product
	Net     int64
}

// Ledger accumulates net revenue per product over one report run. Entries
// keep first-seen order so the rendered report is stable across runs.
type Ledger struct {
	order   []string
	entries map[string]*Entry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*Entry)}
}

// Add posts net to the product's running total. The display name recorded on
// first sight must never change afterwards; a drift means the catalog data
// is inconsistent and the run must not continue.
func (l *Ledger) Add(p processor.Product, net int64) error {
	if e, ok := l.entries[p.ID]; ok {
		if e.Product.Name != p.Name {
			return &InconsistentProductNameError{ProductID: p.ID, Stored: e.Product.Name, Got: p.Name}
		}
		e.Net += net
		return nil
	}
	l.entries[p.ID] = &Entry{Product: p, Net: net}
	l.order = append(l.order, p.ID)
	return nil
}

// Entries returns the accumulated entries in first-seen order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.entries[id])
	}
	return out
}

// Total returns the sum of all entry nets, pseudo-products included.
func (l *Ledger) Total() int64 {
	var sum int64
	for _, e := range l.entries {
		sum += e.Net
	}
	return sum
}
