// Package main - точка входа сервиса подбора Aviato.
//
// Подкоманды:
//   - serve   - HTTP API: лист выбора интересов и список матчей
//   - migrate - применение миграций PostgreSQL
//   - rank    - ранжирование кандидатов из консоли
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "aviato",
	Short:        "Aviato match service",
	Long:         "Aviato ranks nearby people by popularity or shared interests and tells whether each of them can be messaged right now.",
	SilenceUsage: true,
}

func main() {
	// .env необязателен
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
