package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-munge/wikibase"
)

func (a *app) newPointCommand() *cobra.Command {
	var toOrder string

	cmd := &cobra.Command{
		Use:   "point <literal>",
		Short: "Parse a WKT point literal and print it back",
		Long: `Point parses a literal such as "Point(12.5 41.9)" or
"<http://www.wikidata.org/entity/Q405> Point(1 2)" and prints its
components. Without a globe the point is re-serialized in --to-order.

Example:
  rdf-munge point "Point(41.9 12.5)" --order lat-long --to-order long-lat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order := a.cfg.CoordinateOrder()
			target := order
			if toOrder != "" {
				var err error
				if target, err = wikibase.ParseCoordinateOrder(toOrder); err != nil {
					return err
				}
			}

			p, err := wikibase.ParsePoint(args[0], order)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "latitude:  %s\n", p.Latitude)
			fmt.Fprintf(out, "longitude: %s\n", p.Longitude)
			if p.Globe != "" {
				fmt.Fprintf(out, "globe:     %s\n", p.Globe)
			}
			wkt, err := p.Format(target)
			if err != nil {
				fmt.Fprintf(out, "wkt:       n/a (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "wkt:       %s (%s)\n", wkt, target)
			return nil
		},
	}
	cmd.Flags().String("order", "", "coordinate order of the input (lat-long, long-lat)")
	cmd.Flags().StringVar(&toOrder, "to-order", "", "coordinate order of the output (default: --order)")
	a.bind(cmd, map[string]string{"order": "pipeline.coordinate_order"})
	return cmd
}
