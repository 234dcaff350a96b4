package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
)

type orderOutput struct {
	Key      string `json:"key"`
	Shortcut int    `json:"shortcut"`
	Default  bool   `json:"default"`
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List the available orderings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := order.Default()
			keys := reg.Keys()
			out := make([]orderOutput, len(keys))
			for i, k := range keys {
				out[i] = orderOutput{Key: string(k), Shortcut: i + 1, Default: k == reg.DefaultKey()}
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			for _, o := range out {
				marker := ""
				if o.Default {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s%s\n", o.Shortcut, o.Key, marker)
			}
			return nil
		},
	}
}
