package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/agent/api"
)

// ErrNotLoggedIn — нет сохранённого токена или он истёк.
var ErrNotLoggedIn = errors.New("not logged in or token expired; run `stocksctl login`")

// NewStockCmd создаёт команду получения котировок по тикеру.
//
// Без флагов используется публичный маршрут. С --from/--to или --authed
// запрос идёт на закрытый маршрут с сохранённым токеном.
//
//	stocksctl stock AAL --from 2020-03-15 --to 2020-03-20
func NewStockCmd(app *App) *cobra.Command {
	var (
		from, to string
		authed   bool
	)

	cmd := &cobra.Command{
		Use:   "stock SYMBOL",
		Short: "Котировки по тикеру",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			c := app.Client()

			var quotes []api.Quote
			if from == "" && to == "" && !authed {
				q, err := c.Latest(symbol)
				if err != nil {
					return err
				}
				quotes = []api.Quote{q}
			} else {
				if !app.Creds.Valid(Now()) {
					return ErrNotLoggedIn
				}
				var err error
				quotes, err = c.Authed(symbol, from, to, app.Creds.Token)
				if err != nil {
					return err
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "TIMESTAMP\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUMES\t")
			for _, q := range quotes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t\n",
					q.Timestamp.Format("2006-01-02 15:04"),
					q.Open.StringFixed(2), q.High.StringFixed(2), q.Low.StringFixed(2), q.Close.StringFixed(2),
					q.Volumes,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "inclusive lower bound, e.g. 2020-03-15")
	cmd.Flags().StringVar(&to, "to", "", "exclusive upper bound")
	cmd.Flags().BoolVar(&authed, "authed", false, "use the authenticated route without a date range")
	return cmd
}
