package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/go-logr/stdr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/VitaminP8/graphql-basics/graph"
	"github.com/VitaminP8/graphql-basics/internal/config"
	"github.com/VitaminP8/graphql-basics/internal/log"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Печатает GraphQL схему",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), formatSchema())
			return err
		},
	}
}

func formatSchema() string {
	es := graph.NewExecutableSchema(graph.Config{Resolvers: &graph.Resolver{}})

	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent("  "))
	f.FormatSchema(es.Schema())

	return buf.String()
}

func newQueryCmd() *cobra.Command {
	var (
		variables string
		operation string
		rawJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "query <document>",
		Short: "Выполняет GraphQL запрос или мутацию на свежих данных",
		Long: `Выполняет GraphQL запрос или мутацию без запуска сервера.

Каждый запуск начинается с seed-данных, поэтому результаты мутаций между запусками не сохраняются.

Примеры:
  graphql-basics query '{ users { id name } }'
  graphql-basics query -v '{"q": "graphql"}' 'query($q: String) { posts(query: $q) { title } }'
  echo '{ comments { text author { name } } }' | graphql-basics query`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			} else {
				stdinQuery, err := readQuery(cmd.InOrStdin())
				if err != nil {
					return err
				}
				query = stdinQuery
			}
			if query == "" {
				return errors.New("no query provided (pass as argument or pipe to stdin)")
			}

			var vars map[string]interface{}
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &vars); err != nil {
					return errors.Wrap(err, "invalid variables JSON")
				}
			}

			logger := newLogger()
			config.LoadEnv(logger)

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			stdr.SetVerbosity(cfg.Verbosity)

			resolver, err := newResolver(cfg.SeedFile)
			if err != nil {
				return err
			}

			ctx := log.WithLogger(cmd.Context(), logger)
			result, err := executeQuery(ctx, resolver, query, vars, operation)
			if err != nil {
				return err
			}

			if rawJSON {
				fmt.Fprintln(cmd.OutOrStdout(), string(result))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), string(pretty.Color(pretty.Pretty(result), nil)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&variables, "variables", "v", "", "Переменные запроса в виде JSON объекта")
	cmd.Flags().StringVarP(&operation, "operation", "o", "", "Имя операции (для документов с несколькими операциями)")
	cmd.Flags().BoolVar(&rawJSON, "json", false, "Вывод JSON без форматирования")
	cmd.Flags().String(config.KeySeedFile, "", "YAML файл с начальными данными (по умолчанию встроенный)")

	return cmd
}

// readQuery читает документ из stdin, если это не терминал
func readQuery(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return "", errors.Wrap(err, "checking stdin")
		}
		if stat.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}
	return strings.TrimSpace(string(data)), nil
}

// executeQuery выполняет документ без HTTP и возвращает только data.
// Ошибки GraphQL превращаются в одну ошибку с кодами из extensions.
func executeQuery(ctx context.Context, resolver *graph.Resolver, query string, variables map[string]interface{}, operationName string) ([]byte, error) {
	exec := executor.New(graph.NewExecutableSchema(graph.Config{Resolvers: resolver}))
	exec.SetErrorPresenter(graph.ErrorPresenter)
	exec.Use(extension.Introspection{})

	ctx = graphql.StartOperationTrace(ctx)
	params := &graphql.RawParams{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	}

	opCtx, errs := exec.CreateOperationContext(ctx, params)
	if errs != nil {
		return nil, formatGraphQLErrors(errs)
	}
	if opCtx.Operation.Operation == ast.Subscription {
		return nil, errors.New("subscriptions need a running server, use the websocket endpoint on /query")
	}

	ctx = graphql.WithOperationContext(ctx, opCtx)
	responses, ctx := exec.DispatchOperation(ctx, opCtx)
	resp := responses(ctx)
	if resp == nil {
		return nil, errors.New("no response")
	}

	if len(resp.Errors) > 0 {
		return nil, formatGraphQLErrors(resp.Errors)
	}
	return resp.Data, nil
}

func formatGraphQLErrors(errs gqlerror.List) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Message
		if len(e.Path) > 0 {
			msg = e.Path.String() + ": " + msg
		}
		if code, ok := e.Extensions["code"]; ok {
			msg = fmt.Sprintf("%s [%v]", msg, code)
		}
		msgs = append(msgs, msg)
	}

	if len(msgs) == 1 {
		return errors.Errorf("graphql: %s", msgs[0])
	}
	return errors.Errorf("graphql errors:\n  %s", strings.Join(msgs, "\n  "))
}
