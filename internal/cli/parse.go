package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/query"
)

type parseOutput struct {
	FreeText string            `json:"free_text"`
	Fields   map[string]string `json:"fields"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	var anyKey bool

	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Show how a query is tokenized",
		Long: `Split a query into field predicates and free text.

By default only album fields are recognised as predicate keys; anything
else stays in the free text. --any-key accepts every key.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := query.NewParser(album.Schema().Known)
			if anyKey {
				p = query.NewParser(nil)
			}
			set := p.Parse(strings.Join(args, " "))

			out := parseOutput{FreeText: set.FreeText(), Fields: set.Fields()}
			if out.Fields == nil {
				out.Fields = map[string]string{}
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "free text: %q\n", out.FreeText)
			for _, k := range set.Keys() {
				v, _ := set.Field(k)
				fmt.Fprintf(w, "%s: %q\n", k, v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&anyKey, "any-key", false, "accept predicates on any key")
	return cmd
}
