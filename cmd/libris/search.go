package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/libris/internal/domain/search/query"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
	embeddinguc "github.com/kailas-cloud/libris/internal/usecase/embedding"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search an owner's library from the command line",
		ArgsUsage: "<term>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Usage:    "owner whose books are searched",
				Required: true,
				Sources:  cli.EnvVars("LIBRIS_OWNER"),
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "reading status filter: unread, reading, read",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "1-based page number",
				Value: query.DefaultPage,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "results per page",
				Value: query.DefaultPageSize,
			},
			&cli.BoolFlag{
				Name:  "lexical",
				Usage: "skip the semantic stage",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the page as JSON",
			},
		},
		Action: searchAction,
	}
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	term := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(term) == "" {
		return errors.New("search term is required")
	}

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := newSearchService(a)
	if err != nil {
		return err
	}

	params := query.Params{
		SearchTerm: term,
		Page:       cmd.Int("page"),
		PageSize:   cmd.Int("page-size"),
		Status:     cmd.String("status"),
		OwnerID:    cmd.String("owner"),
	}
	q, err := query.New(params)
	if err != nil {
		return err //nolint:wrapcheck // already carries the invalid query detail
	}

	if !cmd.Bool("lexical") {
		qe := embeddinguc.NewQueryEmbedder(a.queryEmbedder).
			WithTimeout(time.Duration(a.cfg.Embedding.QueryTimeoutMs) * time.Millisecond)
		if params.Embedding = qe.EmbedQuery(ctx, q.Term()); len(params.Embedding) > 0 {
			if q, err = query.New(params); err != nil {
				return err //nolint:wrapcheck // already carries the invalid query detail
			}
		}
	}

	page, err := svc.Search(ctx, &q)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if cmd.Bool("json") {
		return printPageJSON(stdout(cmd), &page, string(q.Mode()))
	}
	return printPage(stdout(cmd), &page, string(q.Mode()))
}

func printPage(w io.Writer, p *result.Page, mode string) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Score", "ID", "Title", "Authors", "Status")
	offset := (p.Page - 1) * p.PageSize
	for i := range p.Items {
		b := &p.Items[i].Book
		err := table.Append(
			strconv.Itoa(offset+i+1),
			strconv.FormatFloat(p.Items[i].Score, 'f', 4, 64),
			b.ID(), b.Title(), b.Authors(), string(b.Status()),
		)
		if err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	_, err := fmt.Fprintf(w, "\n%d results, page %d of %d (%s)\n", p.TotalCount, p.Page, p.TotalPages, mode)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

type pageJSON struct {
	Mode       string     `json:"mode"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
	Items      []itemJSON `json:"items"`
}

type itemJSON struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Authors string  `json:"authors,omitempty"`
	Status  string  `json:"status"`
	Score   float64 `json:"score"`
}

func printPageJSON(w io.Writer, p *result.Page, mode string) error {
	out := pageJSON{
		Mode:       mode,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Items:      make([]itemJSON, len(p.Items)),
	}
	for i := range p.Items {
		b := &p.Items[i].Book
		out.Items[i] = itemJSON{
			ID:      b.ID(),
			Title:   b.Title(),
			Authors: b.Authors(),
			Status:  string(b.Status()),
			Score:   p.Items[i].Score,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
