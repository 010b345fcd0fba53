package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/libris/internal/domain/book"
)

func TestDecodeBooks(t *testing.T) {
	in := strings.Join([]string{
		`{"id":"dune","ownerId":"alice","title":"Dune","authors":"Frank Herbert","tags":["sci-fi","classic"],"pageCount":412,"publishedAt":"1965-08-01","status":"read"}`,
		``,
		`{"title":"Solaris","publisher":"Walker"}`,
	}, "\n")

	got, err := decodeBooks(strings.NewReader(in), "bob")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "dune", got[0].ID)
	assert.Equal(t, "alice", got[0].OwnerID)
	assert.Equal(t, []string{"sci-fi", "classic"}, got[0].Tags)
	assert.Equal(t, 412, got[0].PageCount)
	assert.Equal(t, book.Read, got[0].Status)
	assert.Equal(t, time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC), got[0].PublishedAt)

	assert.Empty(t, got[1].ID, "id is assigned by the import service")
	assert.Equal(t, "bob", got[1].OwnerID)
	assert.Equal(t, "Walker", got[1].Publisher)
	assert.True(t, got[1].PublishedAt.IsZero())
}

func TestDecodeBooks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"malformed json", "{\"title\":\"Dune\"}\n{oops", "line 2"},
		{"bad status", `{"title":"Dune","status":"lost"}`, "unknown reading status"},
		{"bad date", `{"title":"Dune","publishedAt":"August 1965"}`, "invalid publishedAt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeBooks(strings.NewReader(tt.in), "")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDecodeBooks_Empty(t *testing.T) {
	got, err := decodeBooks(strings.NewReader("\n\n"), "alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2001-02-03", time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)},
		{"2001-02-03T10:00:00+02:00", time.Date(2001, 2, 3, 8, 0, 0, 0, time.UTC)},
		{"1984", time.Date(1984, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
	}
}
