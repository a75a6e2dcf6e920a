package csvio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopaholics/internal/domain/product"
)

// DefaultCategory is assigned to imported rows without a category.
const DefaultCategory = "Uncategorized"

// Numeric bounds for imported rows. Exponents are checked before any
// comparison so that values like 1e50000000 are never expanded.
const (
	maxExponent = 9
	maxScale    = 8
	maxReviews  = math.MaxInt32
)

var (
	maxPrice  = decimal.New(1, maxExponent)
	maxRating = decimal.NewFromInt(5)
)

// Required header columns.
var requiredColumns = []string{"title", "price"}

var (
	// ErrMissingHeader is returned when the input has fewer than two lines.
	ErrMissingHeader = errors.New("file appears empty or missing headers")
	// ErrNoValidProducts is returned when no row produced a product.
	ErrNoValidProducts = errors.New("no valid products found to import")
)

// MissingColumnsError reports required header columns absent from the file.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("csv must contain %q columns, missing %s",
		requiredColumns, strings.Join(e.Missing, ", "))
}

// RowError describes a skipped row. Line is 1-based and counts the header.
type RowError struct {
	Line   int
	Reason string
}

// Result is the outcome of parsing an import file.
type Result struct {
	Products []product.Product
	Skipped  int
	Errors   []RowError
}

// Imported returns the number of rows that produced a product.
func (r *Result) Imported() int {
	return len(r.Products)
}

// Importer parses uploaded CSV text into products.
type Importer struct {
	newID            func() string
	placeholderImage func() string
}

// NewImporter creates an Importer that assigns random ids and placeholder
// images to rows lacking them.
func NewImporter() *Importer {
	return &Importer{
		newID:            uuid.NewString,
		placeholderImage: randomPlaceholderImage,
	}
}

func randomPlaceholderImage() string {
	return fmt.Sprintf("https://picsum.photos/400/400?random=%d", rand.IntN(1000))
}

// gzipMagic prefixes gzip-compressed uploads.
var gzipMagic = []byte{0x1f, 0x8b}

// Read decodes r, transparently decompressing gzip input, and parses the
// text. Read failures abort the import.
func (im *Importer) Read(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if head, err := br.Peek(len(gzipMagic)); err == nil && string(head) == string(gzipMagic) {
		zr, err := pgzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip")
		}
		defer func() { _ = zr.Close() }()
		src = zr
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	return im.Parse(string(data))
}

// Parse converts CSV text into products. Header problems abort the whole
// file; row problems skip only that row.
func (im *Importer) Parse(content string) (*Result, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if len(lines) < 2 {
		return nil, ErrMissingHeader
	}

	headers := parseHeader(lines[0])
	if missing := missingColumns(headers); len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	res := &Result{}
	for i, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lineNo := i + 2

		row := make(map[string]string, len(headers))
		cols := splitRow(line)
		for idx, h := range headers {
			if idx < len(cols) {
				row[h] = cleanValue(cols[idx])
			}
		}

		p, reason := im.buildProduct(row)
		if reason != "" {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Line: lineNo, Reason: reason})
			continue
		}
		res.Products = append(res.Products, p)
	}
	return res, nil
}

func (im *Importer) buildProduct(row map[string]string) (product.Product, string) {
	title := row["title"]
	if title == "" {
		return product.Product{}, "missing title"
	}
	price, err := decimal.NewFromString(row["price"])
	if err != nil {
		return product.Product{}, fmt.Sprintf("invalid price %q", row["price"])
	}
	if price.IsNegative() {
		return product.Product{}, fmt.Sprintf("negative price %q", row["price"])
	}
	if !withinBounds(price, maxPrice) {
		return product.Product{}, fmt.Sprintf("price out of range %q", row["price"])
	}

	p := product.Product{
		ID:              row["id"],
		Title:           title,
		Slug:            row["slug"],
		Price:           price,
		Category:        row["category"],
		Image:           row["image"],
		Description:     row["description"],
		IsDupeCandidate: strings.EqualFold(row["isdupecandidate"], "true") || strings.EqualFold(row["is_dupe_candidate"], "true"),
		Rating:          parseRating(row["rating"]),
		Reviews:         parseReviews(row["reviews"]),
		Specs:           product.Specs{},
	}
	if p.ID == "" {
		p.ID = im.newID()
	}
	if p.Slug == "" {
		p.Slug = Slugify(title)
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Image == "" {
		p.Image = im.placeholderImage()
	}
	return p, ""
}

// parseHeader splits the header on every comma; header names cannot
// contain quoted commas.
func parseHeader(line string) []string {
	parts := strings.Split(line, ",")
	for i, h := range parts {
		parts[i] = strings.ToLower(stripQuotes(strings.TrimSpace(h)))
	}
	return parts
}

func missingColumns(headers []string) []string {
	var missing []string
	for _, col := range requiredColumns {
		found := false
		for _, h := range headers {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col)
		}
	}
	return missing
}

// splitRow splits on commas that are followed by an even number of quote
// characters up to the end of the line, i.e. commas outside quoted spans.
func splitRow(line string) []string {
	remaining := strings.Count(line, `"`)
	var (
		cols  []string
		start int
	)
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			remaining--
		case ',':
			if remaining%2 == 0 {
				cols = append(cols, line[start:i])
				start = i + 1
			}
		}
	}
	return append(cols, line[start:])
}

// cleanValue trims a raw column, strips its surrounding quotes and collapses
// doubled quotes.
func cleanValue(raw string) string {
	return strings.ReplaceAll(stripQuotes(strings.TrimSpace(raw)), `""`, `"`)
}

func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// withinBounds reports whether d lies in [0, upper] with at most maxScale
// fractional digits.
func withinBounds(d, upper decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxExponent || exp < -maxScale {
		return false
	}
	return !d.IsNegative() && d.LessThanOrEqual(upper)
}

// parseRating returns the rating in s, or 0 when it is unparsable or
// outside 0..5.
func parseRating(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil || !withinBounds(d, maxRating) {
		return decimal.Zero
	}
	return d
}

// parseReviews returns the review count in s, or 0 when it is negative or
// does not fit a 32-bit column.
func parseReviews(s string) int {
	n := parseLeadingInt(s)
	if n < 0 || n > maxReviews {
		return 0
	}
	return n
}

// parseLeadingInt parses the optionally signed integer prefix of s,
// returning 0 when there is none ("12.0" -> 12, "abc" -> 0).
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
