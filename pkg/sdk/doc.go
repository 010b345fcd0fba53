// Package libris provides a Go client for the libris book search engine
// backed by Redis (Query Engine) or PostgreSQL (pgvector).
//
// Every search is scoped to one owner. A search term is matched lexically
// with boosted clauses and, when an embedder is configured, semantically;
// the two rankings are fused with reciprocal rank fusion.
//
//	client, _ := libris.New(ctx,
//	    libris.WithRedis("localhost:6379", ""),
//	    libris.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	_ = client.EnsureIndex(ctx)
//	_, _ = client.Import(ctx, []libris.Book{{OwnerID: "alice", Title: "Dune"}})
//	page, _ := client.Search(ctx, libris.SearchParams{OwnerID: "alice", Term: "desert planet"})
package libris
