// Package csvio converts catalog data to and from the CSV files used by the
// admin panel.
//
// Export quotes every cell. Import is a single pass over the uploaded text
// with a quote-aware column split; rows that fail validation are counted and
// skipped rather than failing the whole file.
package csvio

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopaholics/internal/domain/admin"
	"github.com/xenking/shopaholics/internal/domain/product"
)

// ErrNoData is returned when there are no records to export.
var ErrNoData = errors.New("no data to export")

// Field is a named cell value.
type Field struct {
	Name  string
	Value any
}

// Record is one exported row. Field order is significant: the first
// record's order defines the header.
type Record []Field

// Lookup returns the value of the named field.
func (r Record) Lookup(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// JXEncoder is implemented by values that compact themselves to JSON when
// written to a cell.
type JXEncoder interface {
	EncodeJX(e *jx.Encoder)
}

// Filename returns the download name for an export of the given kind,
// e.g. "products_export_2024-03-01.csv".
func Filename(kind string, now time.Time) string {
	return fmt.Sprintf("%s_export_%s.csv", kind, now.UTC().Format(time.DateOnly))
}

// Write renders records as CSV. The header lists the first record's field
// names; each row looks its values up by those names, so fields missing
// from later records become empty cells and extra fields are dropped.
func Write(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return ErrNoData
	}

	header := make([]string, len(records[0]))
	for i, f := range records[0] {
		header[i] = f.Name
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, rec := range records {
		b.WriteByte('\n')
		for i, name := range header {
			if i > 0 {
				b.WriteByte(',')
			}
			v, _ := rec.Lookup(name)
			cell, err := formatValue(v)
			if err != nil {
				return errors.Wrapf(err, "format %q", name)
			}
			writeQuoted(&b, cell)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write csv")
	}
	return nil
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}

// formatValue renders a single cell. nil becomes an empty string and
// composite values are compacted to JSON.
func formatValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case decimal.Decimal:
		return v.String(), nil
	case JXEncoder:
		e := jx.GetEncoder()
		defer jx.PutEncoder(e)
		v.EncodeJX(e)
		return e.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// specsCell adapts product specs to a compact JSON object cell.
type specsCell product.Specs

func (s specsCell) EncodeJX(e *jx.Encoder) {
	e.ObjStart()
	for _, spec := range s {
		e.FieldStart(spec.Key)
		e.Str(spec.Value)
	}
	e.ObjEnd()
}

// ProductRecords maps products to export records. The column set matches
// what Import recognises, plus the export-only specs column.
func ProductRecords(products []product.Product) []Record {
	out := make([]Record, len(products))
	for i, p := range products {
		out[i] = Record{
			{Name: "id", Value: p.ID},
			{Name: "title", Value: p.Title},
			{Name: "slug", Value: p.Slug},
			{Name: "price", Value: p.Price},
			{Name: "category", Value: p.Category},
			{Name: "image", Value: p.Image},
			{Name: "description", Value: p.Description},
			{Name: "isDupeCandidate", Value: p.IsDupeCandidate},
			{Name: "rating", Value: p.Rating},
			{Name: "reviews", Value: p.Reviews},
			{Name: "specs", Value: specsCell(p.Specs)},
		}
	}
	return out
}

// OrderRecords maps orders to export records.
func OrderRecords(orders []admin.Order) []Record {
	out := make([]Record, len(orders))
	for i, o := range orders {
		out[i] = Record{
			{Name: "id", Value: o.ID},
			{Name: "customer", Value: o.Customer},
			{Name: "items", Value: o.Items},
			{Name: "total", Value: o.Total},
			{Name: "status", Value: o.Status},
			{Name: "date", Value: o.Date},
		}
	}
	return out
}
