package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Пример использования:
//
//	stocksctl register --email test@example.com --password StrongPass123
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		email string
		pw    passwordFlags
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := pw.resolve(cmd)
			if err != nil {
				return err
			}

			resp, err := app.Client().Register(email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	pw.bind(cmd)
	cmd.MarkFlagRequired("email")

	return cmd
}
