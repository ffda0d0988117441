// Package main provides the brr CLI entry point.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orneryd/brr/pkg/config"
	"github.com/orneryd/brr/pkg/embedcache"
	"github.com/orneryd/brr/pkg/hashembed"
	"github.com/orneryd/brr/pkg/twotier"
	"github.com/orneryd/brr/pkg/vectorindex"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "brr",
		Short: "brr - two-tier hybrid search with progressive results",
		Long: `brr combines BM25-style lexical search and dense-vector semantic
search via Reciprocal Rank Fusion, with an optional second pass that
re-embeds the query with a slower, higher-quality model and blends the
results in.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("brr v%s (%s)\n", version, commit)
		},
	})

	var dim int
	indexCmd := &cobra.Command{
		Use:   "index <path>",
		Short: "Build a vector index from stdin, one document per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(args[0], dim)
		},
	}
	indexCmd.Flags().IntVar(&dim, "dim", 384, "embedding dimension")
	rootCmd.AddCommand(indexCmd)

	var k int
	var fastOnly bool
	searchCmd := &cobra.Command{
		Use:   "search <path> <query>",
		Short: "Search a saved index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(args[0], args[1], k, fastOnly)
		},
	}
	searchCmd.Flags().IntVarP(&k, "k", "k", 10, "number of results")
	searchCmd.Flags().BoolVar(&fastOnly, "fast-only", false, "skip the refinement phase")
	rootCmd.AddCommand(searchCmd)

	infoCmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Print metadata for a saved index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
	rootCmd.AddCommand(infoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runIndex(path string, dim int) error {
	embed := hashembed.New(dim, 3)
	idx := vectorindex.New(embed.Dimension(), embed.ModelID())

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()
	lineNum := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lineNum++
		vec, err := embed.Embed(ctx, line)
		if err != nil {
			return fmt.Errorf("failed to embed line %d: %w", lineNum, err)
		}
		docID := fmt.Sprintf("doc-%d", lineNum)
		if err := idx.Add(docID, vec); err != nil {
			return fmt.Errorf("failed to add line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := idx.Save(path, true); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	fmt.Printf("Indexed %d documents to %s\n", idx.Count(), path)
	return nil
}

func runSearch(path, query string, k int, fastOnly bool) error {
	idx, err := vectorindex.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	fast := embedcache.New(hashembed.New(idx.Dimension(), 3), 0)
	quality := embedcache.New(hashembed.New(idx.Dimension(), 5), 0)

	cfg := config.LoadFromEnv()
	if fastOnly {
		cfg.FastOnly = true
	}

	searcher := twotier.New(idx, fast, quality, nil, cfg)
	stream := searcher.Search(query, k)

	ctx := context.Background()
	for {
		result, ok := stream.Next(ctx)
		if !ok {
			break
		}
		fmt.Printf("-- %s --\n", result.Phase)
		for _, hit := range result.Hits {
			fmt.Printf("%.4f  %s\n", hit.RRFScore, hit.DocID)
		}
	}
	return nil
}

func runInfo(path string) error {
	idx, err := vectorindex.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}
	fmt.Printf("Documents: %d\n", idx.Count())
	fmt.Printf("Dimension: %d\n", idx.Dimension())
	fmt.Printf("Embedder:  %s\n", idx.EmbedderID())
	return nil
}
