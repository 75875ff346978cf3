package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/labgen/internal/history"
	"github.com/abhisek/labgen/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the allocation history archive",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent allocations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)
		ctx := context.Background()

		return withArchive(ctx, v, func(a history.Archive) error {
			recs, err := a.List(ctx, v.GetInt("limit"))
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}

			if v.GetBool("json") {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}

			if len(recs) == 0 {
				fmt.Println("No allocations recorded.")
				return nil
			}

			fmt.Printf("%-19s  %-20s  %-20s  %-6s  %-8s  %8s  %5s\n",
				"Generated", "Subject", "Topic", "Diff", "Mode", "Students", "Tasks")
			fmt.Println(strings.Repeat("─", 98))
			for _, r := range recs {
				fmt.Printf("%-19s  %-20s  %-20s  %-6s  %-8s  %8d  %5d\n",
					r.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
					truncate(r.Subject, 20),
					truncate(r.Topic, 20),
					r.Difficulty,
					r.Mode,
					r.TotalStudents,
					r.TotalStudents*r.QuestionsPerStudent,
				)
			}
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all archived allocations",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)
		ctx := context.Background()

		return withArchive(ctx, v, func(a history.Archive) error {
			if err := a.Clear(ctx); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Println("History cleared.")
			return nil
		})
	},
}

func withArchive(ctx context.Context, v *viper.Viper, fn func(history.Archive) error) error {
	var st *store.Store
	if v.GetString("history") == backendStore {
		var err error
		st, err = openStore(v)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
	}

	a, closeArchive, err := openArchive(ctx, v, st)
	if err != nil {
		return err
	}
	defer closeArchive()
	return fn(a)
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", history.Capacity, "Number of records to show")
	historyListCmd.Flags().Bool("json", false, "Print records as JSON")
	addHistoryFlags(historyListCmd.Flags(), backendStore)
	addHistoryFlags(historyClearCmd.Flags(), backendStore)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
