package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"newsblog/internal/core"
	"newsblog/internal/news"
	"newsblog/internal/pipeline"
	"newsblog/internal/render"
	"newsblog/internal/tui"
)

type generateOptions struct {
	category   string
	categoryID string
	output     string
	formats    []string
	perKeyword int
	useTUI     bool
	toS3       bool
}

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [keyword]",
		Short: "Generate a blog post from the most newsworthy matching article",
		Long: `Search Naver news for a keyword (or a news section), rank the results,
and generate a complete blog post from the top article.

The post is written to the output directory as JSON, Markdown and HTML.
With --publish the same files are also uploaded to the configured S3 bucket.

Examples:
  newsblog generate 금리
  newsblog generate --category 경제
  newsblog generate --category-id 105 --format html --output ./site
  newsblog generate 반도체 --tui --publish`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := ""
			if len(args) == 1 {
				keyword = args[0]
			}
			return runGenerate(cmd, keyword, opts)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "news category name (e.g. 경제)")
	cmd.Flags().StringVar(&opts.categoryID, "category-id", "", "news section ID (100 politics, 101 economy, 102 society, ...)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config: posts)")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: json, markdown, html (default from config: all)")
	cmd.Flags().IntVar(&opts.perKeyword, "per-keyword", 0, "images requested per keyword (default from config: 1)")
	cmd.Flags().BoolVar(&opts.useTUI, "tui", false, "show an interactive progress view")
	cmd.Flags().BoolVar(&opts.toS3, "publish", false, "also upload the files to the configured S3 bucket")

	return cmd
}

func runGenerate(cmd *cobra.Command, keyword string, opts *generateOptions) error {
	if err := cfg.ValidateForGeneration(); err != nil {
		return err
	}

	formats, err := parseFormats(opts.formats, cfg.Output.Formats)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, _, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	publishers, err := newPublishers(ctx, cfg, opts.output, opts.toS3)
	if err != nil {
		return err
	}

	req := pipeline.Request{
		Query: news.Query{
			Keyword:      strings.TrimSpace(keyword),
			CategoryID:   opts.categoryID,
			CategoryName: opts.category,
		},
		PerKeyword: opts.perKeyword,
	}

	out := cmd.OutOrStdout()
	var rec *core.BlogRecord
	if opts.useTUI {
		rec, err = tui.Run(ctx, p, req, cfg.PipelineTimeout())
	} else {
		fmt.Fprintln(out, titleStyle.Render("📰 Generating blog post"))
		res := <-p.Start(ctx, req, cfg.PipelineTimeout(), printProgress(out))
		rec, err = res.Record, res.Err
	}
	if err != nil {
		var f *pipeline.Failure
		if errors.As(err, &f) {
			fmt.Fprintln(out, errorStyle.Render("❌ "+f.Reason))
		}
		return err
	}

	artifacts, err := render.Files(*rec, render.Slug(rec.Title, rec.GeneratedAt), formats...)
	if err != nil {
		return err
	}

	var locations []string
	for _, pub := range publishers {
		locs, err := pub.Publish(ctx, artifacts)
		if err != nil {
			return err
		}
		locations = append(locations, locs...)
	}

	printSummary(out, rec, locations)
	return nil
}

func printProgress(w io.Writer) pipeline.ProgressFunc {
	return func(p pipeline.Progress) {
		if p.State == pipeline.Failed {
			return
		}
		fmt.Fprintf(w, "%s %3d%% %s\n", infoStyle.Render("›"), p.Percent, p.Message)
	}
}

func printSummary(w io.Writer, rec *core.BlogRecord, locations []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, successStyle.Render("✅ "+rec.Title))
	fmt.Fprintf(w, "   %d words · about %d min read · %s\n", rec.WordCount, rec.EstimatedReadMinutes, rec.GeneratorLabel)
	if len(rec.Tags) > 0 {
		fmt.Fprintf(w, "   tags: %s\n", strings.Join(rec.Tags, ", "))
	}
	if n := countImages(rec.Content); n > 0 {
		fmt.Fprintf(w, "   images: %d\n", n)
	}
	fmt.Fprintf(w, "   source: %s\n", infoStyle.Render(rec.SourceNews.URL))
	for _, loc := range locations {
		fmt.Fprintf(w, "   → %s\n", loc)
	}
}

func countImages(content string) int {
	page, err := render.ContentHTML(content)
	if err != nil {
		return 0
	}
	urls, err := render.ImageURLs(string(page))
	if err != nil {
		return 0
	}
	return len(urls)
}

func parseFormats(flags, configured []string) ([]render.Format, error) {
	names := flags
	if len(names) == 0 {
		names = configured
	}
	formats := make([]render.Format, 0, len(names))
	seen := make(map[render.Format]bool)
	for _, name := range names {
		f, err := render.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

