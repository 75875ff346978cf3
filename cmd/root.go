package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/labgen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "labgen",
	Short: "Generate and allocate practical lab tasks",
	Long: `labgen generates a pool of hands-on lab tasks for a subject and topic,
using an LLM when one is configured and built-in templates otherwise, and
hands every student a distinct slice of the pool.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		setupLogging(viperForCmd(cmd))
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Database DSN or SQLite path (overrides LABGEN_DB env var)")
	pf.String("db-driver", store.DriverSQLite, "Database driver (sqlite, postgres)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging(v *viper.Viper) {
	var level slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// viperForCmd binds a command's flags, LABGEN_* environment variables and
// an optional labgen config file to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("LABGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("labgen")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/labgen")
	v.AddConfigPath("/etc/labgen")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}
	return v
}

// openStore opens the database selected by --db-driver and --db. For
// SQLite an empty DSN resolves to LABGEN_DB or the default XDG path.
func openStore(v *viper.Viper) (*store.Store, error) {
	driver := v.GetString("db-driver")
	dsn := v.GetString("db")

	if driver == store.DriverSQLite {
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, err
			}
			dsn = p
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, err
		}
	} else if dsn == "" {
		return nil, errors.New("--db is required for the postgres driver")
	}
	return store.Open(driver, dsn)
}
