package handler

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/xenking/shopaholics/internal/csvio"
	"github.com/xenking/shopaholics/internal/domain/admin"
	"github.com/xenking/shopaholics/internal/domain/catalog"
)

func (h *Handler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, admin.GetDashboard())
}

// Export serves the catalog ("products") or the sample orders ("orders") as
// a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var (
		buf      bytes.Buffer
		filename string
		err      error
	)
	switch kind := r.PathValue("kind"); kind {
	case "products":
		filename, err = h.catalog.Export(r.Context(), &buf)
	case "orders":
		err = csvio.Write(&buf, csvio.OrderRecords(admin.Orders()))
		filename = csvio.Filename(kind, h.now())
	default:
		writeError(w, http.StatusNotFound, "unknown export "+strconv.Quote(kind))
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Import appends the products of an uploaded CSV to the catalog. The file is
// either the raw request body or the "file" part of a multipart form.
// ?skipExisting=true drops rows whose id is already in the catalog.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImportBytes)

	var opts []catalog.ImportOption
	if skip, _ := strconv.ParseBool(r.URL.Query().Get("skipExisting")); skip {
		opts = append(opts, catalog.WithSkipExisting())
	}

	body, closeBody, err := h.importBody(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer closeBody()

	summary, err := h.catalog.Import(r.Context(), body, opts...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) importBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}

	f, _, err := r.FormFile("file")
	if err != nil {
		var mbErr *http.MaxBytesError
		if errors.As(err, &mbErr) {
			return nil, nil, mbErr
		}
		return nil, nil, &requestError{msg: "multipart form must contain a \"file\" part"}
	}
	return f, func() { _ = f.Close() }, nil
}

// Reset restores the seed catalog.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reset(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
