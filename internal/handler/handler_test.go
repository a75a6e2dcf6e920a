package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/xenking/shopaholics/internal/advisor"
	"github.com/xenking/shopaholics/internal/csvio"
	"github.com/xenking/shopaholics/internal/domain/admin"
	"github.com/xenking/shopaholics/internal/domain/cart"
	"github.com/xenking/shopaholics/internal/domain/catalog"
	"github.com/xenking/shopaholics/internal/domain/insights"
	"github.com/xenking/shopaholics/internal/domain/product"
	"github.com/xenking/shopaholics/internal/storage/memory"
)

// --- Mock implementations ---

type failingCatalog struct {
	Catalog
	err error
}

func (m *failingCatalog) List(context.Context, string) ([]product.Product, error) {
	return nil, m.err
}

type emptyCatalog struct {
	Catalog
}

func (emptyCatalog) List(context.Context, string) ([]product.Product, error) {
	return nil, nil
}

// --- Helpers ---

type testServer struct {
	mux     *http.ServeMux
	handler *Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	kv := memory.New()
	products := product.NewKVRepository(kv)
	cat, err := catalog.NewService(products, csvio.NewImporter(), noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	store := cart.NewStore(kv)
	adv := advisor.New(nil)
	h := New(Config{MaxImportBytes: 1 << 10}, cat, store,
		insights.NewService(products, store, adv),
		advisor.NewSessions(adv, 0),
	)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	mux := http.NewServeMux()
	h.Register(mux)
	return &testServer{mux: mux, handler: h}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return s.do(t, method, target, r, "application/json")
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status int) Error {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	e := decodeBody[Error](t, w)
	assert.Equal(t, status, e.Code)
	return e
}

// --- Tests ---

func TestListProducts(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target string
		want   []string
	}{
		{target: "/api/products", want: []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}},
		{target: "/api/products?category=all", want: []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}},
		{target: "/api/products?category=Tech", want: []string{"p1", "p2", "p7"}},
		{target: "/api/products?category=Garden", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := s.doJSON(t, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code)

			ids := []string{}
			for _, p := range decodeBody[[]product.Product](t, w) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListProducts_EmptyCatalog(t *testing.T) {
	s := newTestServer(t)
	s.handler.catalog = emptyCatalog{}

	w := s.doJSON(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListProducts_StorageFailure(t *testing.T) {
	s := newTestServer(t)
	s.handler.catalog = &failingCatalog{err: errors.New("connection reset")}

	w := s.doJSON(t, http.MethodGet, "/api/products", "")
	e := requireError(t, w, http.StatusInternalServerError)
	assert.NotContains(t, e.Message, "connection reset")
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodGet, "/api/products/p3", "")
	require.Equal(t, http.StatusOK, w.Code)
	p := decodeBody[product.Product](t, w)
	assert.Equal(t, "Designer Leather Tote", p.Title)
	assert.True(t, decimal.RequireFromString("895").Equal(p.Price))

	w = s.doJSON(t, http.MethodGet, "/api/products/nope", "")
	requireError(t, w, http.StatusNotFound)
}

func TestGetInsights(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodGet, "/api/products/p1/insights", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[insights.Insights](t, w)
	assert.Equal(t, "p1", got.Product.ID)
	assert.NotEmpty(t, got.Advice)
	require.NotNil(t, got.Dupe)
	assert.Equal(t, "p2", got.Dupe.Product.ID)
	assert.True(t, decimal.RequireFromString("310").Equal(got.Dupe.Savings))

	w = s.doJSON(t, http.MethodGet, "/api/products/p8/insights", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeBody[insights.Insights](t, w).Dupe)

	w = s.doJSON(t, http.MethodGet, "/api/products/nope/insights", "")
	requireError(t, w, http.StatusNotFound)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":"0","itemCount":0}`, w.Body.String())

	for _, id := range []string{"p2", "p8", "p2"} {
		w = s.doJSON(t, http.MethodPost, "/api/cart/items", `{"productId":"`+id+`"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	c := decodeBody[cart.Cart](t, w)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 3, c.ItemCount)
	assert.True(t, decimal.RequireFromString("97.98").Equal(c.Total))

	w = s.doJSON(t, http.MethodPut, "/api/cart/items/p8", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	c = decodeBody[cart.Cart](t, w)
	assert.Equal(t, 6, c.ItemCount)

	w = s.doJSON(t, http.MethodPut, "/api/cart/items/p8", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	c = decodeBody[cart.Cart](t, w)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ID)

	w = s.doJSON(t, http.MethodDelete, "/api/cart/items/p2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[cart.Cart](t, w).Items)

	s.doJSON(t, http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)
	w = s.doJSON(t, http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	c = decodeBody[cart.Cart](t, w)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestCart_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{name: "malformed json", method: http.MethodPost, target: "/api/cart/items", body: `{`, status: http.StatusBadRequest, message: "invalid JSON body"},
		{name: "missing product id", method: http.MethodPost, target: "/api/cart/items", body: `{}`, status: http.StatusBadRequest, message: "productId is required"},
		{name: "unknown product", method: http.MethodPost, target: "/api/cart/items", body: `{"productId":"zz"}`, status: http.StatusNotFound, message: "product not found"},
		{name: "missing quantity", method: http.MethodPut, target: "/api/cart/items/p1", body: `{}`, status: http.StatusBadRequest, message: "quantity is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.doJSON(t, tt.method, tt.target, tt.body)
			e := requireError(t, w, tt.status)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodGet, "/api/admin/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	d := decodeBody[admin.Dashboard](t, w)
	assert.Equal(t, 843, d.ImpulseBuys)
	assert.Len(t, d.SalesVsImpulseWeek, 7)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodGet, "/api/admin/export/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products_export_")
	lines := strings.Split(w.Body.String(), "\n")
	assert.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "id,title,"))

	w = s.doJSON(t, http.MethodGet, "/api/admin/export/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=orders_export_2024-03-01.csv", w.Header().Get("Content-Disposition"))
	assert.Len(t, strings.Split(w.Body.String(), "\n"), 5)

	w = s.doJSON(t, http.MethodGet, "/api/admin/export/customers", "")
	requireError(t, w, http.StatusNotFound)
}

func TestImport_RawBody(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/admin/import", strings.NewReader("title,price\nLamp,12\nBroken,abc"), "text/csv")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[catalog.ImportSummary](t, w)
	assert.Equal(t, 1, got.Imported)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, "Import complete! Success: 1, Skipped/Errors: 1", got.Message)

	w = s.doJSON(t, http.MethodGet, "/api/products", "")
	assert.Len(t, decodeBody[[]product.Product](t, w), 9)
}

func TestImport_Multipart(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "products.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("title,price\nKettle,30\nToaster,25"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := s.do(t, http.MethodPost, "/api/admin/import", &body, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, decodeBody[catalog.ImportSummary](t, w).Imported)
}

func TestImport_MultipartWithoutFile(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "hello"))
	require.NoError(t, mw.Close())

	w := s.do(t, http.MethodPost, "/api/admin/import", &body, mw.FormDataContentType())
	requireError(t, w, http.StatusBadRequest)
}

func TestImport_SkipExisting(t *testing.T) {
	s := newTestServer(t)

	csv := "id,title,price\np1,Headphones again,1\nnew-1,Fresh,2"
	w := s.do(t, http.MethodPost, "/api/admin/import?skipExisting=true", strings.NewReader(csv), "text/csv")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[catalog.ImportSummary](t, w)
	assert.Equal(t, 1, got.Imported)
	assert.Equal(t, 1, got.Duplicates)
	assert.Equal(t, "Import complete! Success: 1, Skipped/Errors: 0, Already in catalog: 1", got.Message)
}

func TestImport_Failures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "empty", body: "", status: http.StatusBadRequest},
		{name: "missing columns", body: "name,cost\nLamp,5", status: http.StatusUnprocessableEntity},
		{name: "no valid rows", body: "title,price\nLamp,free", status: http.StatusUnprocessableEntity},
		{name: "too large", body: "title,price\n" + strings.Repeat("Lamp,1\n", 500), status: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			w := s.do(t, http.MethodPost, "/api/admin/import", strings.NewReader(tt.body), "text/csv")
			requireError(t, w, tt.status)

			w = s.doJSON(t, http.MethodGet, "/api/products", "")
			assert.Len(t, decodeBody[[]product.Product](t, w), 8, "catalog must be untouched")
		})
	}
}

func TestReset(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/admin/import", strings.NewReader("title,price\nLamp,12"), "text/csv")

	w := s.doJSON(t, http.MethodPost, "/api/admin/reset", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.doJSON(t, http.MethodGet, "/api/products", "")
	assert.Len(t, decodeBody[[]product.Product](t, w), 8)
}

func TestChat(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodPost, "/api/chat", "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[chatResponse](t, w)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Messages, 1)
	assert.Equal(t, advisor.IntroMessage, created.Messages[0].Text)

	target := "/api/chat/" + created.ID + "/messages"
	w = s.doJSON(t, http.MethodPost, target, `{"message":"Should I buy the headphones?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody[replyResponse](t, w).Reply)

	w = s.doJSON(t, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeBody[chatResponse](t, w)
	require.Len(t, history.Messages, 3)
	assert.Equal(t, advisor.RoleUser, history.Messages[1].Role)
	assert.Equal(t, advisor.RoleModel, history.Messages[2].Role)
}

func TestChat_Errors(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodPost, "/api/chat", "")
	id := decodeBody[chatResponse](t, w).ID

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{name: "unknown session", target: "/api/chat/nope/messages", body: `{"message":"hi"}`, status: http.StatusNotFound},
		{name: "missing message", target: "/api/chat/" + id + "/messages", body: `{}`, status: http.StatusBadRequest},
		{name: "blank message", target: "/api/chat/" + id + "/messages", body: `{"message":"   "}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.doJSON(t, http.MethodPost, tt.target, tt.body)
			requireError(t, w, tt.status)
		})
	}

	w = s.doJSON(t, http.MethodGet, "/api/chat/nope/messages", "")
	requireError(t, w, http.StatusNotFound)
}
