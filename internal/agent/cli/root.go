// Package cli реализует командный интерфейс (CLI) клиента Stocks API.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку сохранённого access-токена из локального файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/agent/api"
	"github.com/IvanChernomyrdin/go-stocks-api/internal/agent/config"
)

// DefaultServerURL — адрес сервера по умолчанию.
const DefaultServerURL = "https://127.0.0.1:3000"

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера.
	ServerURL string
	// Insecure отключает проверку TLS-сертификата (самоподписанный сертификат в dev).
	Insecure bool

	// CredsPath — путь к файлу с сохранённым токеном.
	CredsPath string
	// Creds — загруженные учётные данные. Заполняется в PersistentPreRunE.
	Creds *config.Credentials
}

// Client создаёт API-клиент с текущими настройками.
func (a *App) Client() *api.Client {
	return NewAPIClient(a.ServerURL, a.Insecure)
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "stocksctl",
		Short: "stocksctl — консольный клиент Stocks API",
		Long: `stocksctl — консольный клиент Stocks API.

Примеры:
  stocksctl register --email test@example.com
  stocksctl login --email test@example.com
  stocksctl symbols --industry "Health Care"
  stocksctl stock AAL
  stocksctl stock AAL --from 2020-03-15 --to 2020-03-20
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", DefaultServerURL, "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "credentials", "", "credentials file (default ~/.stocksapi/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewSymbolsCmd(app))
	cmd.AddCommand(NewStockCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
