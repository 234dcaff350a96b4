package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/match"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
	"github.com/kailas-cloud/albumdex/internal/domain/search/query"
	"github.com/kailas-cloud/albumdex/internal/repository/catalog"
)

type searchOutput struct {
	Matches       []catalog.AlbumDTO `json:"matches"`
	Total         int                `json:"total"`
	MatchFailures int                `json:"match_failures"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file    string
		orderBy string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Filter and sort a collection file",
		Long: `Run a query against a JSON array of albums and print the matches
in the selected order. An empty query lists the whole collection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			albums, err := catalog.LoadFile(file)
			if err != nil {
				return err
			}

			out, err := search(albums, strings.Join(args, " "), order.Key(orderBy))
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			w := cmd.OutOrStdout()
			for _, a := range out.Matches {
				fmt.Fprintf(w, "%-8s %-32s %-24s %-10s %4d %3d\n", a.ID, a.Title, a.Artist, a.Genre, a.Year, a.Tracks)
			}
			fmt.Fprintf(w, "%d of %d albums", len(out.Matches), out.Total)
			if out.MatchFailures > 0 {
				fmt.Fprintf(w, " (%d could not be tested)", out.MatchFailures)
			}
			fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON collection file")
	cmd.Flags().StringVarP(&orderBy, "order", "o", string(order.Default().DefaultKey()), "ordering key")
	return cmd
}

func search(albums []album.Album, q string, k order.Key) (searchOutput, error) {
	reg := order.Default()
	if _, err := reg.Lookup(k); err != nil {
		return searchOutput{}, fmt.Errorf("%w (available: %v)", err, reg.Keys())
	}

	preds := query.NewParser(album.Schema().Known).Parse(q)
	m := match.Default()

	var (
		matches  []album.Album
		failures int
	)
	for _, a := range albums {
		ok, err := m.Match(a, preds)
		if err != nil {
			failures++
			continue
		}
		if ok {
			matches = append(matches, a)
		}
	}
	if err := reg.Sort(matches, k); err != nil {
		return searchOutput{}, err
	}

	return searchOutput{
		Matches:       catalog.FromDomain(matches),
		Total:         len(albums),
		MatchFailures: failures,
	}, nil
}
