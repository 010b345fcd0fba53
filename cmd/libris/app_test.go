package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/libris/internal/config"
	"github.com/kailas-cloud/libris/internal/db"
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/libris/internal/usecase/search"
)

func TestSearchConfig_FromDefaults(t *testing.T) {
	var cfg config.Config
	cfg.ApplyDefaults()

	sc := searchConfig(cfg.Search)
	require.NoError(t, sc.Validate())
	assert.Equal(t, searchuc.DefaultConfig(), sc)
}

func TestSearchConfig_Overrides(t *testing.T) {
	sc := searchConfig(config.SearchConfig{
		Boosts:              lexical.Boosts{Phrase: 10},
		KText:               2,
		KVector:             30,
		NumCandidates:       200,
		CandidateMultiplier: 3,
		SemanticFailure:     "degrade",
	})
	assert.Equal(t, 10.0, sc.Boosts.Phrase)
	assert.Equal(t, searchuc.FusionConfig{TextK: 2, VectorK: 30}, sc.Fusion)
	assert.Equal(t, 200, sc.NumCandidates)
	assert.Equal(t, 3, sc.CandidateMultiplier)
	assert.Equal(t, searchuc.FailurePolicyDegrade, sc.SemanticFailure)
}

func TestCatalogOptions(t *testing.T) {
	opts := catalogOptions(config.IndexConfig{
		Name:            "books",
		Dimensions:      768,
		Distance:        "cosine",
		HNSWM:           32,
		HNSWEFConstruct: 400,
	})
	assert.Equal(t, db.DistanceCosine, opts.Distance)
	assert.Equal(t, 768, opts.Dimensions)
	assert.Equal(t, 32, opts.M)
	assert.Equal(t, 400, opts.EFConstruction)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LIBRIS_TEST_VAR=from-file\n"), 0o600))
	t.Setenv("LIBRIS_TEST_VAR", "")
	require.NoError(t, os.Unsetenv("LIBRIS_TEST_VAR"))

	cmd := newCommand()
	cmd.Commands = nil
	cmd.Writer = &bytes.Buffer{}
	require.NoError(t, cmd.Run(context.Background(), []string{"libris", "--env-file", path}))
	assert.Equal(t, "from-file", os.Getenv("LIBRIS_TEST_VAR"))
}

func TestLoadEnvFile_MissingIsIgnored(t *testing.T) {
	cmd := newCommand()
	cmd.Commands = nil
	cmd.Writer = &bytes.Buffer{}
	err := cmd.Run(context.Background(), []string{"libris", "--env-file", filepath.Join(t.TempDir(), "nope.env")})
	assert.NoError(t, err)
}

func TestPrintPage(t *testing.T) {
	b, err := book.New(book.Attributes{ID: "dune", OwnerID: "alice", Title: "Dune", Authors: "Frank Herbert"})
	require.NoError(t, err)
	page := result.NewPage([]result.Item{{Book: b, Score: 0.5}}, 51, 2, 50)

	var buf bytes.Buffer
	require.NoError(t, printPage(&buf, &page, "lexical"))
	out := buf.String()
	assert.Regexp(t, `51\W+0\.5000\W+dune\W+Dune\W+Frank Herbert\W+Unread`, out)
	assert.Contains(t, out, "Frank Herbert")
	assert.Contains(t, out, "51 results, page 2 of 2 (lexical)")
}

func TestPrintPageJSON(t *testing.T) {
	page := result.NewPage(nil, 0, 1, 50)

	var buf bytes.Buffer
	require.NoError(t, printPageJSON(&buf, &page, "hybrid"))
	assert.Contains(t, buf.String(), `"mode": "hybrid"`)
	assert.Contains(t, buf.String(), `"items": []`)
}
