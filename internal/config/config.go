package config

import (
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения, например GRAPHQL_BASICS_ADDR
const EnvPrefix = "GRAPHQL_BASICS"

const (
	KeyAddr            = "addr"
	KeySeedFile        = "seed-file"
	KeyPlayground      = "playground"
	KeyVerbosity       = "verbosity"
	KeyShutdownTimeout = "shutdown-timeout"
)

type Config struct {
	Addr            string
	SeedFile        string
	Playground      bool
	Verbosity       int
	ShutdownTimeout time.Duration
}

// LoadEnv подгружает .env в окружение процесса, если файл есть
func LoadEnv(logger logr.Logger, filenames ...string) {
	err := godotenv.Load(filenames...)
	if err != nil {
		logger.V(1).Info(".env file not found")
	}
}

// RegisterFlags объявляет флаги, которые затем читает Load
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyAddr, ":8080", "Адрес HTTP сервера")
	flags.String(KeySeedFile, "", "YAML файл с начальными данными (по умолчанию встроенный)")
	flags.Bool(KeyPlayground, true, "Отдавать GraphQL Playground на /")
	flags.IntP(KeyVerbosity, "v", 0, "Уровень подробности логов")
	flags.Duration(KeyShutdownTimeout, 5*time.Second, "Таймаут graceful shutdown")
}

// Load собирает конфигурацию: значения по умолчанию, окружение, затем явно заданные флаги
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeySeedFile, "")
	v.SetDefault(KeyPlayground, true)
	v.SetDefault(KeyVerbosity, 0)
	v.SetDefault(KeyShutdownTimeout, 5*time.Second)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
	}

	cfg := &Config{
		Addr:            v.GetString(KeyAddr),
		SeedFile:        v.GetString(KeySeedFile),
		Playground:      v.GetBool(KeyPlayground),
		Verbosity:       v.GetInt(KeyVerbosity),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.Errorf("shutdown timeout must be positive, got %s", cfg.ShutdownTimeout)
	}

	return cfg, nil
}
