package handler

import (
	"net/http"

	"github.com/xenking/shopaholics/internal/domain/cart"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r)(h.cart.Get(r.Context()))
}

// AddCartItem adds one unit of a catalog product.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondCart(w, r)(h.cart.AddItem(r.Context(), *p))
}

// UpdateCartItem sets the quantity of a line; a quantity below one removes
// it. Unknown ids leave the cart unchanged.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondCart(w, r)(h.cart.UpdateQuantity(r.Context(), r.PathValue("id"), *req.Quantity))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r)(h.cart.RemoveItem(r.Context(), r.PathValue("id")))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r)(h.cart.Clear(r.Context()))
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request) func(cart.Cart, error) {
	return func(c cart.Cart, err error) {
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if c.Items == nil {
			c.Items = []cart.Item{}
		}
		writeJSON(w, http.StatusOK, c)
	}
}
