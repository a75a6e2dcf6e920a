package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    Backend
		wantErr bool
	}{
		{raw: "memory://", want: Backend{Scheme: "memory"}},
		{raw: "sqlite:///var/lib/shop.db", want: Backend{Scheme: "sqlite", Path: "/var/lib/shop.db"}},
		{raw: "sqlite://shop.db", want: Backend{Scheme: "sqlite", Path: "shop.db"}},
		{raw: "sqlite://data/shop.db", want: Backend{Scheme: "sqlite", Path: "data/shop.db"}},
		{
			raw:  "postgres://u:p@localhost:5432/shop?sslmode=disable",
			want: Backend{Scheme: "postgres", DSN: "postgres://u:p@localhost:5432/shop?sslmode=disable"},
		},
		{raw: "postgresql://localhost/shop", want: Backend{Scheme: "postgres", DSN: "postgresql://localhost/shop"}},
		{raw: "sqlite://", wantErr: true},
		{raw: "redis://localhost", wantErr: true},
		{raw: "://broken", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedacted(t *testing.T) {
	assert.Equal(t, "postgres://u:xxxxx@db/shop", Redacted("postgres://u:secret@db/shop"))
	assert.Equal(t, "<invalid url>", Redacted("://u:secret@db"))
}
