package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/libris/internal/domain/batch"
	"github.com/kailas-cloud/libris/internal/domain/book"
	batchuc "github.com/kailas-cloud/libris/internal/usecase/batch"
)

const (
	defaultImportBatch = 500
	maxLineBytes       = 4 << 20
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "import books from a JSON Lines file (one book per line, - for stdin)",
		ArgsUsage: "<file.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "owner",
				Usage: "owner assigned to records without ownerId",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "concurrent imports (overrides import.workers)",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "records submitted per batch",
				Value: defaultImportBatch,
			},
		},
		Action: importAction,
	}
}

func importAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("exactly one input file is required")
	}

	in, closeIn, err := openInput(cmd.Args().First())
	if err != nil {
		return err
	}
	defer closeIn()

	records, err := decodeBooks(in, cmd.String("owner"))
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.index.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	workers := a.cfg.Import.Workers
	if n := cmd.Int("workers"); n > 0 {
		workers = n
	}
	svc := batchuc.New(a.books, a.docEmbedder, a.logger).WithWorkers(workers)

	size := cmd.Int("batch-size")
	if size <= 0 {
		size = defaultImportBatch
	}

	start := time.Now()
	var total dombatch.Summary
	for lo := 0; lo < len(records); lo += size {
		hi := min(lo+size, len(records))
		results, err := svc.Import(ctx, records[lo:hi])
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		for _, r := range results {
			if r.Status() == dombatch.StatusError {
				a.logger.Warn("Book not imported", zap.String("id", r.ID()), zap.Error(r.Err()))
			}
		}
		s := dombatch.Summarize(results)
		total.Imported += s.Imported
		total.LexicalOnly += s.LexicalOnly
		total.Failed += s.Failed
		a.logger.Info("Batch imported",
			zap.Int("done", hi),
			zap.Int("total", len(records)),
		)
	}

	if err := printf(cmd, "imported %d books (%d without embedding), %d failed in %s\n",
		total.Imported, total.LexicalOnly, total.Failed, time.Since(start).Round(time.Millisecond)); err != nil {
		return err
	}
	if total.Failed > 0 {
		return fmt.Errorf("%d of %d books failed to import", total.Failed, len(records))
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// bookRecord is one line of an import file.
type bookRecord struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId"`
	Title       string   `json:"title"`
	Authors     string   `json:"authors"`
	Publisher   string   `json:"publisher"`
	Description string   `json:"description"`
	Annotation  string   `json:"annotation"`
	Tags        []string `json:"tags"`
	ISBN10      string   `json:"isbn10"`
	ISBN13      string   `json:"isbn13"`
	PageCount   int      `json:"pageCount"`
	PublishedAt string   `json:"publishedAt"`
	Status      string   `json:"status"`
}

// decodeBooks reads JSON Lines, skipping blank lines. owner fills records without one.
// Record-level validation is left to the import service; only undecodable lines fail here.
func decodeBooks(r io.Reader, owner string) ([]book.Attributes, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []book.Attributes
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var rec bookRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		attrs, err := rec.attributes(owner)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, attrs)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", line+1, err)
	}
	return out, nil
}

func (r *bookRecord) attributes(owner string) (book.Attributes, error) {
	a := book.Attributes{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Authors:     r.Authors,
		Publisher:   r.Publisher,
		Description: r.Description,
		Annotation:  r.Annotation,
		Tags:        r.Tags,
		ISBN10:      r.ISBN10,
		ISBN13:      r.ISBN13,
		PageCount:   r.PageCount,
	}
	if a.OwnerID == "" {
		a.OwnerID = owner
	}
	if r.Status != "" {
		st, err := book.ParseStatus(r.Status)
		if err != nil {
			return book.Attributes{}, err //nolint:wrapcheck // caller adds the line number
		}
		a.Status = st
	}
	if r.PublishedAt != "" {
		t, err := parseDate(r.PublishedAt)
		if err != nil {
			return book.Attributes{}, err
		}
		a.PublishedAt = t
	}
	return a, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid publishedAt %q (want YYYY-MM-DD)", s)
}
