package csvio

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImporter() *Importer {
	n := 0
	return &Importer{
		newID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
		placeholderImage: func() string { return "placeholder.jpg" },
	}
}

func TestParse_QuotedCommaAndEscapedQuote(t *testing.T) {
	im := newTestImporter()

	res, err := im.Parse("title,price\n\"Widget, \"\"Pro\"\" Edition\",19.99")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)

	p := res.Products[0]
	assert.Equal(t, `Widget, "Pro" Edition`, p.Title)
	assert.True(t, decimal.RequireFromString("19.99").Equal(p.Price))
	assert.Equal(t, "widget-pro-edition", p.Slug)
}

func TestParse_Defaults(t *testing.T) {
	im := newTestImporter()

	res, err := im.Parse("Title,Price\nLamp,12")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)

	p := res.Products[0]
	assert.Equal(t, "gen-1", p.ID)
	assert.Equal(t, "lamp", p.Slug)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.Equal(t, "placeholder.jpg", p.Image)
	assert.Empty(t, p.Description)
	assert.False(t, p.IsDupeCandidate)
	assert.True(t, p.Rating.IsZero())
	assert.Zero(t, p.Reviews)
	assert.NotNil(t, p.Specs)
	assert.Empty(t, p.Specs)
}

func TestParse_AllColumns(t *testing.T) {
	im := newTestImporter()
	content := strings.Join([]string{
		`"id","title","slug","price","category","image","description","isDupeCandidate","rating","reviews","specs"`,
		`"x1","Desk","desk-1","150.5","Home","desk.jpg","Solid oak","TRUE","4.5","12.0","{""a"":""b""}"`,
	}, "\n")

	res, err := im.Parse(content)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)

	p := res.Products[0]
	assert.Equal(t, "x1", p.ID)
	assert.Equal(t, "desk-1", p.Slug)
	assert.Equal(t, "Home", p.Category)
	assert.Equal(t, "desk.jpg", p.Image)
	assert.Equal(t, "Solid oak", p.Description)
	assert.True(t, p.IsDupeCandidate)
	assert.True(t, decimal.RequireFromString("4.5").Equal(p.Rating))
	assert.Equal(t, 12, p.Reviews)
	assert.Empty(t, p.Specs, "specs column is not imported")
}

func TestParse_DupeCandidateHeaderSpellings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "camel case", content: "title,price,isDupeCandidate\nA,1,true", want: true},
		{name: "snake case", content: "title,price,is_dupe_candidate\nA,1,True", want: true},
		{name: "other value", content: "title,price,is_dupe_candidate\nA,1,yes", want: false},
		{name: "absent", content: "title,price\nA,1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestImporter().Parse(tt.content)
			require.NoError(t, err)
			require.Len(t, res.Products, 1)
			assert.Equal(t, tt.want, res.Products[0].IsDupeCandidate)
		})
	}
}

func TestParse_SkipsInvalidRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("title,price\n")
	for i := range 10 {
		price := fmt.Sprintf("%d.99", i)
		if i == 3 || i == 7 {
			price = "free"
		}
		fmt.Fprintf(&b, "Item %d,%s\n", i, price)
	}

	res, err := newTestImporter().Parse(b.String())
	require.NoError(t, err)
	assert.Equal(t, 8, res.Imported())
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 5, res.Errors[0].Line)
	assert.Equal(t, 9, res.Errors[1].Line)
}

func TestParse_RowValidation(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{name: "empty title", row: `"",5`},
		{name: "missing price column", row: `Lamp`},
		{name: "empty price", row: `Lamp,`},
		{name: "negative price", row: `Lamp,-1`},
		{name: "huge exponent price", row: `Lamp,1e50000000`},
		{name: "tiny exponent price", row: `Lamp,1e-50000000`},
		{name: "price above limit", row: `Lamp,1000000000.01`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestImporter().Parse("title,price\n" + tt.row)
			require.NoError(t, err)
			assert.Zero(t, res.Imported())
			assert.Equal(t, 1, res.Skipped)
		})
	}
}

func TestParse_NumericBounds(t *testing.T) {
	tests := []struct {
		name        string
		row         string
		wantRating  string
		wantReviews int
	}{
		{name: "in range", row: `A,1,4.5,12`, wantRating: "4.5", wantReviews: 12},
		{name: "rating at limit", row: `A,1,5,0`, wantRating: "5", wantReviews: 0},
		{name: "rating above five", row: `A,1,12.5,3`, wantRating: "0", wantReviews: 3},
		{name: "negative rating", row: `A,1,-3,3`, wantRating: "0", wantReviews: 3},
		{name: "exponent rating", row: `A,1,1e50000000,3`, wantRating: "0", wantReviews: 3},
		{name: "negative reviews", row: `A,1,4,-5`, wantRating: "4", wantReviews: 0},
		{name: "reviews overflow int32", row: `A,1,4,3000000000`, wantRating: "4", wantReviews: 0},
		{name: "reviews at int32 max", row: `A,1,4,2147483647`, wantRating: "4", wantReviews: 2147483647},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestImporter().Parse("title,price,rating,reviews\n" + tt.row)
			require.NoError(t, err)
			require.Len(t, res.Products, 1)

			p := res.Products[0]
			assert.True(t, decimal.RequireFromString(tt.wantRating).Equal(p.Rating), p.Rating.String())
			assert.Equal(t, tt.wantReviews, p.Reviews)
		})
	}
}

func TestParse_PriceAtLimit(t *testing.T) {
	res, err := newTestImporter().Parse("title,price\nYacht,1e9\nBoat,999999999.99999999")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported())
}

func TestParse_HeaderErrors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErr     error
		wantMissing []string
	}{
		{name: "empty file", content: "", wantErr: ErrMissingHeader},
		{name: "header only without newline", content: "title,price", wantErr: ErrMissingHeader},
		{name: "missing price", content: "title,category\nLamp,Home", wantMissing: []string{"price"}},
		{name: "missing both", content: "name,cost\nLamp,5", wantMissing: []string{"title", "price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestImporter().Parse(tt.content)
			require.Error(t, err)
			assert.Nil(t, res)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			var mcErr *MissingColumnsError
			require.ErrorAs(t, err, &mcErr)
			assert.Equal(t, tt.wantMissing, mcErr.Missing)
		})
	}
}

func TestParse_BOMAndLineEndings(t *testing.T) {
	content := "\ufefftitle,price\r\nA,1\r\n\r\nB,2\r\n"

	res, err := newTestImporter().Parse(content)
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "A", res.Products[0].Title)
	assert.Equal(t, "B", res.Products[1].Title)
	assert.Zero(t, res.Skipped)
}

func TestRead_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	_, err := zw.Write([]byte("title,price\nKettle,30"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	res, err := newTestImporter().Read(&buf)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Kettle", res.Products[0].Title)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("device not ready")
}

func TestRead_Failure(t *testing.T) {
	_, err := newTestImporter().Read(errReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read csv")
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: `a,b,c`, want: []string{"a", "b", "c"}},
		{line: `"a,b",c`, want: []string{`"a,b"`, "c"}},
		{line: `a,"b ""x"", y",c`, want: []string{"a", `"b ""x"", y"`, "c"}},
		{line: `a,,c`, want: []string{"a", "", "c"}},
		{line: `a,`, want: []string{"a", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, splitRow(tt.line))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":             "hello-world",
		"  --Trim me--  ":         "trim-me",
		"Café & Crème 2000":       "caf-cr-me-2000",
		"already-a-slug":          "already-a-slug",
		"!!!":                     "",
		`Widget, "Pro" Edition`:   "widget-pro-edition",
		"UPPER_case__underscores": "upper-case-underscores",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestParseLeadingInt(t *testing.T) {
	tests := map[string]int{
		"42":   42,
		"12.7": 12,
		"-3":   -3,
		"7abc": 7,
		"abc":  0,
		"":     0,
		"-":    0,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLeadingInt(in), in)
	}
}
