package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/labgen/internal/allocation"
	"github.com/abhisek/labgen/internal/history"
	"github.com/abhisek/labgen/internal/labtask"
	"github.com/abhisek/labgen/internal/llm"
	"github.com/abhisek/labgen/internal/ui/components"
	"github.com/abhisek/labgen/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and allocate lab tasks once and print them",
	Long: `Build a task pool for the given subject and print each student's slice.

Without --archive nothing is written to the database.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringP("subject", "s", "", "Subject, e.g. \"Physics\" (required)")
	f.StringP("topic", "t", "", "Topic within the subject")
	f.StringP("difficulty", "d", string(labtask.DifficultyMedium), "Difficulty: easy, medium or hard")
	f.StringP("mode", "m", string(labtask.ModeExam), "Mode: exam or friendly")
	f.String("context", "", "Extra instructions for the generator")
	f.IntP("students", "n", 1, "Number of students")
	f.IntP("questions", "k", allocation.DefaultQuestionCount, "Tasks per student")
	f.String("roster", "", "Path to a JSON array of students")
	f.Bool("json", false, "Print the response as JSON")
	f.Bool("archive", false, "Record the run in the database history and LLM event log")
	_ = generateCmd.MarkFlagRequired("subject")
	addLLMFlags(f)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	ctx := cmd.Context()

	req := allocation.Request{
		Mode:         labtask.Mode(v.GetString("mode")),
		Difficulty:   labtask.Difficulty(v.GetString("difficulty")),
		Subject:      v.GetString("subject"),
		Topic:        v.GetString("topic"),
		Context:      v.GetString("context"),
		StudentCount: v.GetInt("students"),
	}
	k := v.GetInt("questions")
	req.QuestionCount = &k

	if path := v.GetString("roster"); path != "" {
		roster, err := readRoster(path)
		if err != nil {
			return err
		}
		req.Students = roster
		if !cmd.Flags().Changed("students") {
			req.StudentCount = len(roster)
		}
	}

	var opts []allocation.Option
	var recorder llm.EventRecorder
	if v.GetBool("archive") {
		st, err := openStore(v)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
		recorder = st.EventRepo()
		opts = append(opts, allocation.WithHistory(history.NewStoreArchive(st.HistoryRepo())))
	}

	client, err := newClient(ctx, v, recorder)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	resp, err := allocation.NewService(client, opts...).Allocate(ctx, req)
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	out := cmd.OutOrStdout()
	md := resp.Metadata
	title := md.Subject
	if md.Topic != "" {
		title += " / " + md.Topic
	}
	fmt.Fprintln(out, theme.Title.Render(title))
	fmt.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("%s difficulty, %s mode", md.Difficulty, md.Mode)))
	fmt.Fprintln(out)
	for _, a := range resp.Allocations {
		fmt.Fprintln(out, components.AllocationCard(a))
	}
	fmt.Fprintln(out, components.Summary(md.TotalStudents, md.TotalQuestions, md.AveragePoints, md.AIGenerated))
	return nil
}

func readRoster(path string) ([]labtask.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var roster []labtask.Student
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return roster, nil
}
