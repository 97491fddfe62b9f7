package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/registry"
)

var (
	searchTransport      string
	searchCategory       string
	searchClassification string
	searchTag            string
	searchLimit          int
	searchOffset         int
	searchJSON           bool
	searchInteractive    bool
)

func init() {
	searchCmd.Flags().StringVar(&searchTransport, "transport", "", "Filter by transport: stdio, http, sse")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Filter by category")
	searchCmd.Flags().StringVar(&searchClassification, "classification", "",
		"Filter by classification: official, reference, community")
	searchCmd.Flags().StringVar(&searchTag, "tag", "", "Filter by tag")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum number of results (0 for all)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Skip leading results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false,
		"Pick a result with the fuzzy finder and activate it")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the MCP server registry",
	Long: `Search the bundled MCP server registry.

Results are ranked: exact id matches first, then id prefixes and
substrings, then title, tag, and description hits. Small typos are
tolerated. Filters combine with AND.

A local registry file configured via registry.path extends or overrides
the bundled catalog.`,
	Example: `  # Free-text search
  mcport search github

  # The whole catalog, most popular first
  mcport search

  # Only remote SSE servers in the data category
  mcport search --transport sse --category data

  # Pick interactively and activate
  mcport search -i database`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchTransport != "" && !mcp.ValidTransport(searchTransport) {
		return errors.NewUserError(
			errors.Newf("invalid transport %q", searchTransport),
			"Valid transports: stdio, http, sse")
	}

	term := ""
	if len(args) > 0 {
		term = args[0]
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	query := registry.Query{
		Term:           term,
		Transport:      searchTransport,
		Category:       searchCategory,
		Classification: searchClassification,
		Tag:            searchTag,
		Limit:          searchLimit,
		Offset:         searchOffset,
	}
	if agents := GetAgentFlag(); len(agents) == 1 {
		query.Agent = agents[0]
	}

	matches := reg.Search(query)

	if searchInteractive {
		return runInteractiveActivate(cmd, term, matches)
	}
	return writeSearchResults(os.Stdout, term, matches)
}

func writeSearchResults(w io.Writer, term string, matches []registry.Match) error {
	if searchJSON {
		type result struct {
			*registry.Entry
			Score int `json:"score"`
		}
		results := make([]result, len(matches))
		for i, m := range matches {
			results[i] = result{Entry: m.Entry, Score: m.Score}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(matches) == 0 {
		if term == "" {
			fmt.Fprintln(w, "No registry entries matched the filters")
		} else {
			fmt.Fprintf(w, "No registry entries matched %q\n", term)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sID%s\t%sTITLE%s\t%sTRANSPORT%s\t%sCLASS%s\t%sDESCRIPTION%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)
	for _, m := range matches {
		e := m.Entry
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s\t%s\n",
			colorGreen, e.ID, colorReset,
			e.Title,
			e.Install.Transport,
			classificationLabel(e.Classification),
			truncate(e.Description, 60))
	}
	return tw.Flush()
}

func classificationLabel(class string) string {
	switch class {
	case registry.ClassOfficial:
		return colorCyan + class + colorReset
	case registry.ClassReference:
		return colorYellow + class + colorReset
	}
	return class
}
