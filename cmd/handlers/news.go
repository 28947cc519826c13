package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newsblog/internal/news"
)

// NewNewsCmd creates the news command
func NewNewsCmd() *cobra.Command {
	var (
		category   string
		categoryID string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "news [keyword]",
		Short: "List ranked news candidates without generating a post",
		Long: `Search Naver news and print the candidates in the order the generator
would consider them, with their newsworthiness scores.

Examples:
  newsblog news 금리
  newsblog news --category-id 100 --limit 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := news.Query{CategoryID: categoryID, CategoryName: category}
			if len(args) == 1 {
				q.Keyword = strings.TrimSpace(args[0])
			}

			searcher, err := newSearcher(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			items, used, err := news.Collect(cmd.Context(), searcher, q)
			if err != nil {
				if hint := news.Hint(err); hint != "" {
					return fmt.Errorf("%w (%s)", err, hint)
				}
				return err
			}

			out := cmd.OutOrStdout()
			ranked := news.Rank(items)
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("📰 %d results for %q (%s)", len(ranked), used, q.Category())))
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}
			for _, c := range ranked {
				fmt.Fprintf(out, "%s  %s\n", scoreStyle.Render(fmt.Sprint(c.Score)), c.Item.Title)
				fmt.Fprintf(out, "       %s\n", infoStyle.Render(c.Item.PubDate+"  "+c.Item.Link()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "news category name")
	cmd.Flags().StringVar(&categoryID, "category-id", "", "news section ID")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of candidates to print (0 for all)")

	return cmd
}
