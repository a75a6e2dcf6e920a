// Package handler exposes the storefront over HTTP.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/xenking/shopaholics/internal/advisor"
	"github.com/xenking/shopaholics/internal/domain/cart"
	"github.com/xenking/shopaholics/internal/domain/catalog"
	"github.com/xenking/shopaholics/internal/domain/insights"
	"github.com/xenking/shopaholics/internal/domain/product"
)

// Catalog is the product catalog use-case layer.
type Catalog interface {
	List(ctx context.Context, category string) ([]product.Product, error)
	Get(ctx context.Context, id string) (*product.Product, error)
	Import(ctx context.Context, r io.Reader, opts ...catalog.ImportOption) (*catalog.ImportSummary, error)
	Export(ctx context.Context, w io.Writer) (string, error)
	Reset(ctx context.Context) error
}

// Cart is the persisted shopping cart.
type Cart interface {
	Get(ctx context.Context) (cart.Cart, error)
	AddItem(ctx context.Context, p product.Product) (cart.Cart, error)
	RemoveItem(ctx context.Context, id string) (cart.Cart, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (cart.Cart, error)
	Clear(ctx context.Context) (cart.Cart, error)
}

// Insights builds the product detail advice.
type Insights interface {
	ForProduct(ctx context.Context, id string) (*insights.Insights, error)
}

// Chats keeps chat sessions addressable by id.
type Chats interface {
	Create(ctx context.Context) (string, *advisor.Chat)
	Get(id string) (*advisor.Chat, bool)
}

var (
	_ Catalog  = (*catalog.Service)(nil)
	_ Cart     = (*cart.Store)(nil)
	_ Insights = (*insights.Service)(nil)
	_ Chats    = (*advisor.Sessions)(nil)
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// MaxImportBytes caps the size of an uploaded CSV. Zero means
	// DefaultMaxImportBytes.
	MaxImportBytes int64
}

// DefaultMaxImportBytes is the upload limit when none is configured.
const DefaultMaxImportBytes = 10 << 20

// Handler serves the JSON API.
type Handler struct {
	catalog  Catalog
	cart     Cart
	insights Insights
	chats    Chats

	validate       *validator.Validate
	maxImportBytes int64
	now            func() time.Time
}

// New constructs a Handler with the required domain dependencies.
func New(cfg Config, catalog Catalog, cart Cart, insights Insights, chats Chats) *Handler {
	if cfg.MaxImportBytes <= 0 {
		cfg.MaxImportBytes = DefaultMaxImportBytes
	}
	return &Handler{
		catalog:        catalog,
		cart:           cart,
		insights:       insights,
		chats:          chats,
		validate:       newValidator(),
		maxImportBytes: cfg.MaxImportBytes,
		now:            time.Now,
	}
}

// Register adds every API route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/products/{id}/insights", h.GetInsights)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)

	mux.HandleFunc("GET /api/admin/dashboard", h.Dashboard)
	mux.HandleFunc("GET /api/admin/export/{kind}", h.Export)
	mux.HandleFunc("POST /api/admin/import", h.Import)
	mux.HandleFunc("POST /api/admin/reset", h.Reset)

	mux.HandleFunc("POST /api/chat", h.CreateChat)
	mux.HandleFunc("GET /api/chat/{id}/messages", h.ChatHistory)
	mux.HandleFunc("POST /api/chat/{id}/messages", h.SendChatMessage)
}
