package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/VitaminP8/graphql-basics/internal/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphql-basics",
		Short: "GraphQL API над пользователями, постами и комментариями в памяти",
		Long: `Запускает GraphQL сервер с данными в памяти.

Сервер отдает:
  - GraphQL endpoint на /query (POST, GET, websocket для подписок)
  - GraphQL Playground на / (если включен)
  - метрики Prometheus на /metrics

Настройки читаются из флагов, переменных окружения GRAPHQL_BASICS_* и файла .env.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}

	config.RegisterFlags(cmd.Flags())

	cmd.AddCommand(newSchemaCmd(), newQueryCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
