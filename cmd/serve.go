package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/labgen/internal/allocation"
	"github.com/abhisek/labgen/internal/history"
	"github.com/abhisek/labgen/internal/llm"
	"github.com/abhisek/labgen/internal/server"
	"github.com/abhisek/labgen/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins (repeatable)")
	f.Duration("request-timeout", 90*time.Second, "Per-request timeout")
	f.Bool("record-llm", true, "Record LLM request events in the database")
	f.Int("archive-queue", history.DefaultQueueSize, "Pending history records before new ones are dropped")
	addHistoryFlags(f, backendMemory)
	addLLMFlags(f)
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if v.GetBool("record-llm") || v.GetString("history") == backendStore {
		var err error
		st, err = openStore(v)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
	}

	var recorder llm.EventRecorder
	if st != nil && v.GetBool("record-llm") {
		recorder = st.EventRepo()
	}
	client, err := newClient(ctx, v, recorder)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	archive, closeArchive, err := openArchive(ctx, v, st)
	if err != nil {
		return err
	}
	defer closeArchive()

	archiver := history.NewArchiver(archive, v.GetInt("archive-queue"), 5*time.Second)
	defer archiver.Close()

	svc := allocation.NewService(client, allocation.WithHistory(archiver))
	srv := server.New(svc, archive, server.Options{
		CORSOrigins:    v.GetStringSlice("cors-origins"),
		RequestTimeout: v.GetDuration("request-timeout"),
	})

	slog.Info("history backend", "backend", v.GetString("history"))
	return srv.ListenAndServe(ctx, v.GetString("addr"))
}
