package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/labgen/internal/llm"
	"github.com/abhisek/labgen/internal/store"
	"github.com/abhisek/labgen/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded generation backend calls",
}

// withEventRepo opens the store named by the persistent --db flags and
// hands its event repository to fn.
func withEventRepo(cmd *cobra.Command, fn func(ctx context.Context, repo store.EventRepo) error) error {
	st, err := openStore(viperForCmd(cmd))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()
	return fn(cmd.Context(), st.EventRepo())
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent backend calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)

		opts := store.QueryOpts{Limit: v.GetInt("limit"), Purpose: v.GetString("purpose")}
		if since := v.GetDuration("since"); since > 0 {
			opts.From = time.Now().Add(-since)
		}

		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			out := cmd.OutOrStdout()
			if v.GetBool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No backend calls recorded.")
				return nil
			}
			writeEventTable(out, events)
			return nil
		})
	},
}

func writeEventTable(w io.Writer, events []store.LLMEvent) {
	fmt.Fprintf(w, "%-5s  %-19s  %-14s  %-28s  %6s  %6s  %7s  %s\n",
		"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "Result")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, e := range events {
		result := theme.OK.Render("ok")
		if !e.Success {
			result = theme.Warn.Render("failed")
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-14s  %-28s  %6d  %6d  %7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format(timeLayout),
			truncate(e.Purpose, 14),
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			result,
		)
	}
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the captured prompt and reply of one backend call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q: %w", args[0], err)
		}

		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			writeEventDetail(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

func writeEventDetail(w io.Writer, e *store.LLMEvent) {
	fields := [][2]string{
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}

	fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("Event #%d", e.ID)))
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s %s\n", f[0]+":", f[1])
	}

	section := func(title, body string) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Subtitle.Render("── "+title+" "+strings.Repeat("─", 50)))
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintln(w, body)
	}
	section("request", e.RequestBody)
	section("response", e.ResponseBody)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No backend usage recorded yet.")
				return nil
			}

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}

			writePurposeUsage(out, byPurpose)
			fmt.Fprintln(out)
			writeCostReport(out, estimateCosts(byModel))
			return nil
		})
	},
}

func writePurposeUsage(w io.Writer, rows []store.LLMPurposeUsage) {
	fmt.Fprintln(w, theme.Title.Render("Usage by purpose"))
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")

	var calls, in, out int
	for _, r := range rows {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %8d\n",
			truncate(r.Purpose, 16), r.Calls, r.InputTokens, r.OutputTokens, r.AvgLatencyMs)
		calls += r.Calls
		in += r.InputTokens
		out += r.OutputTokens
	}
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d\n", "total", calls, in, out)
}

// costLine is one model's priced usage. Cost is negative when the model
// is missing from the pricing table.
type costLine struct {
	store.LLMModelUsage
	Cost float64
}

type costReport struct {
	Lines   []costLine
	Total   float64
	Unknown []string
}

func estimateCosts(rows []store.LLMModelUsage) costReport {
	var r costReport
	for _, mu := range rows {
		line := costLine{LLMModelUsage: mu, Cost: -1}
		if price := llm.LookupCost(mu.Model); price != nil {
			line.Cost = price.Cost(mu.InputTokens, mu.OutputTokens)
			r.Total += line.Cost
		} else {
			r.Unknown = append(r.Unknown, mu.Model)
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}

func writeCostReport(w io.Writer, r costReport) {
	fmt.Fprintln(w, theme.Title.Render("Estimated cost (USD)"))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	for _, l := range r.Lines {
		cost := "?"
		if l.Cost >= 0 {
			cost = formatCost(l.Cost)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %9s\n",
			truncate(l.Model, 32), l.Calls, l.InputTokens, l.OutputTokens, cost)
	}

	label := "total"
	if len(r.Unknown) > 0 {
		label = "total (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(r.Total))
	if len(r.Unknown) > 0 {
		fmt.Fprintln(w, theme.Hint.Render("no pricing for: "+strings.Join(r.Unknown, ", ")))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	f := llmListCmd.Flags()
	f.IntP("limit", "n", 20, "Number of events to show")
	f.StringP("purpose", "p", "", "Only show calls with this purpose, e.g. lab-task-gen")
	f.Duration("since", 0, "Only show calls newer than this, e.g. 24h")
	f.Bool("json", false, "Print events as JSON")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
