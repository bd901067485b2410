// Package main содержит точку входа консольного клиента stocksctl.
//
// Пакет передаёт версию и дату сборки в CLI-слой приложения.
package main

import "github.com/IvanChernomyrdin/go-stocks-api/internal/agent/cli"

var (
	// buildVersion задаётся при сборке через -ldflags.
	buildVersion = "dev"
	// buildDate задаётся при сборке через -ldflags.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
