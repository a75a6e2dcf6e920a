package handler

import (
	"net/http"

	"github.com/xenking/shopaholics/internal/domain/product"
)

// ListProducts returns the catalog, optionally narrowed by ?category=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if products == nil {
		products = []product.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetInsights returns the impulse advice and, when one exists, the cheaper
// dupe for a product.
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	out, err := h.insights.ForProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
