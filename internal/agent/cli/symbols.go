package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewSymbolsCmd создаёт команду вывода списка бумаг.
//
//	stocksctl symbols --industry "Health Care"
func NewSymbolsCmd(app *App) *cobra.Command {
	var industry string

	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "Список бумаг (с фильтром по отрасли)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Client().Symbols(industry)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tNAME\tINDUSTRY")
			for _, s := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Symbol, s.Name, s.Industry)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&industry, "industry", "", "industry substring (case-sensitive)")
	return cmd
}
