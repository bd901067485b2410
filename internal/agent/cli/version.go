package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCmd создаёт CLI-команду для отображения информации о сборке.
//
//	stocksctl version
func NewVersionCmd(buildVersion, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию и дату сборки",
		Args:  cobra.NoArgs,
		// файл учётных данных здесь не нужен
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stocksctl %s (built %s, %s)\n", buildVersion, buildDate, runtime.Version())
		},
	}
}
