package recon

import (
	"fmt"
	"strconv"
	"strings"
)

// ProductPayout is the fee-adjusted result for one real product. Monetary
// values are in minor currency units; AdjustedFee and NetPayout carry the
// fractional remainders of the proportional split.
type ProductPayout struct {
	ProductID string
	Name      string
	Email     string
	Rate      float64

	Revenue         int64
	AdjustedFee     float64
	AdjustedRevenue float64
	NetPayout       float64
}

// Allocation is the reconciled month: real products with their fee shares,
// the reserve pseudo-entries kept for audit, and the aggregate fee.
type Allocation struct {
	Products []ProductPayout
	Reserves []Entry

	// Fee is the aggregate processor usage fee F (normally negative).
	Fee int64
	// TotalRevenue is the pre-fee sum R over real products.
	TotalRevenue int64
}

// Allocate partitions ledger entries into reserves, the fee pseudo-product
// and real products, then distributes the fee across products in proportion
// to revenue. With no real-product revenue there is nothing to allocate to
// and every fee share is zero.
func Allocate(entries []Entry) (Allocation, error) {
	var alloc Allocation

	var products []Entry
	for _, e := range entries {
		switch {
		case strings.HasPrefix(e.Product.ID, reservePrefix):
			alloc.Reserves = append(alloc.Reserves, e)
		case e.Product.ID == categoryFee:
			alloc.Fee += e.Net
		default:
			products = append(products, e)
			alloc.TotalRevenue += e.Net
		}
	}

	for _, e := range products {
		rate, err := payoutRate(e.Product.Metadata)
		if err != nil {
			return Allocation{}, fmt.Errorf("product %s: %w", e.Product.ID, err)
		}

		p := ProductPayout{
			ProductID: e.Product.ID,
			Name:      e.Product.Name,
			Email:     e.Product.Metadata["email"],
			Rate:      rate,
			Revenue:   e.Net,
		}
		if alloc.TotalRevenue != 0 {
			p.AdjustedFee = float64(alloc.Fee) * float64(e.Net) / float64(alloc.TotalRevenue)
		}
		p.AdjustedRevenue = float64(p.Revenue) + p.AdjustedFee
		p.NetPayout = p.AdjustedRevenue * (1 - p.Rate)

		alloc.Products = append(alloc.Products, p)
	}

	return alloc, nil
}

// payoutRate reads the optional "rate" metadata, a fraction in [0, 1]
// withheld from the product's payout.
func payoutRate(metadata map[string]string) (float64, error) {
	raw, ok := metadata["rate"]
	if !ok || raw == "" {
		return 0, nil
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate metadata %q: %w", raw, err)
	}
	if rate < 0 || rate > 1 {
		return 0, fmt.Errorf("rate metadata %q outside [0, 1]", raw)
	}
	return rate, nil
}
