package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/agent/config"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя.
//
// Полученный токен сохраняется в файл учётных данных и дальше
// используется командой stock для закрытого маршрута.
//
// Пример использования:
//
//	stocksctl login --email test@example.com
func NewLoginCmd(app *App) *cobra.Command {
	var (
		email string
		pw    passwordFlags
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access-токен)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := pw.resolve(cmd)
			if err != nil {
				return err
			}

			resp, err := app.Client().Login(email, password)
			if err != nil {
				return err
			}

			app.Creds = &config.Credentials{
				Email:     email,
				Token:     resp.Token,
				ExpiresAt: Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
			}
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "login ok, token valid until %s\n", app.Creds.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	pw.bind(cmd)
	cmd.MarkFlagRequired("email")

	return cmd
}
