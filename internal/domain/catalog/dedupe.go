package catalog

import (
	"github.com/bits-and-blooms/bloom/v3"

	"github.com/xenking/shopaholics/internal/domain/product"
)

// existingFPR is the false positive rate of the id filter. Filter hits are
// confirmed against the exact id set, so it only affects how often the
// exact set is consulted.
const existingFPR = 0.001

// idFilter answers "is this id already in the catalog".
type idFilter struct {
	bloom *bloom.BloomFilter
	exact map[string]struct{}
}

func newIDFilter(catalog []product.Product) *idFilter {
	n := uint(len(catalog))
	if n == 0 {
		n = 1
	}
	f := &idFilter{
		bloom: bloom.NewWithEstimates(n, existingFPR),
		exact: make(map[string]struct{}, len(catalog)),
	}
	for _, p := range catalog {
		f.bloom.AddString(p.ID)
		f.exact[p.ID] = struct{}{}
	}
	return f
}

func (f *idFilter) contains(id string) bool {
	if !f.bloom.TestString(id) {
		return false
	}
	_, ok := f.exact[id]
	return ok
}

// dropExisting removes incoming products whose id is already present in
// catalog or earlier in incoming.
func dropExisting(catalog, incoming []product.Product) (kept []product.Product, dropped int) {
	f := newIDFilter(catalog)
	kept = make([]product.Product, 0, len(incoming))
	for _, p := range incoming {
		if f.contains(p.ID) {
			dropped++
			continue
		}
		f.bloom.AddString(p.ID)
		f.exact[p.ID] = struct{}{}
		kept = append(kept, p)
	}
	return kept, dropped
}
