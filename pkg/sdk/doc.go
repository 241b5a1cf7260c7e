// Package docquery embeds the document search and summarization service in
// a Go program, without the HTTP layer.
//
//	client, _ := docquery.New(ctx,
//	    docquery.WithPostgres("postgres://localhost:5432/docs"),
//	    docquery.WithAnthropic(os.Getenv("ANTHROPIC_API_KEY")),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, docquery.Query{Term: "water", Country: "Kenya"})
//	doc, _ := client.Get(ctx, res.Documents[0].ID)
//	sum, _ := client.Summarize(ctx, doc.ID, docquery.SummaryRequest{Model: "claude-3-sonnet"})
package docquery
