package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"resumerank/internal/domain"
	"resumerank/internal/ingest"
	"resumerank/internal/ranker"
	"resumerank/internal/service"
	"resumerank/internal/tui"
)

func newRankCommand(a *app) *cobra.Command {
	var (
		jobPath   string
		vocabPath string
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "rank --job FILE RESUME...",
		Short: "Rank resume files against a job description file",
		Long: "Rank resume files against a job description file.\n\n" +
			"Resume arguments may be glob patterns, including ** for recursive matches.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobPath == "" {
				return errors.New("--job is required")
			}
			reg, err := a.decoders()
			if err != nil {
				return err
			}
			job, err := ingest.LoadFile(reg, jobPath)
			if err != nil {
				return fmt.Errorf("job description: %w", err)
			}
			paths, err := ingest.Expand(args)
			if err != nil {
				return err
			}
			candidates, skipped, err := ingest.LoadCandidates(reg, paths)
			if err != nil {
				return err
			}
			for _, s := range skipped {
				a.logger.Warn("resume skipped", "path", s.Path, "reason", s.Reason)
			}

			store := a.snapshotStore()
			svc := a.rankingService(store)
			var report *service.Report
			if vocabPath != "" {
				vocab, err := store.Load(cmd.Context(), vocabPath)
				if err != nil {
					return fmt.Errorf("load vocabulary: %w", err)
				}
				report, err = svc.RankWithVocabulary(cmd.Context(), vocab, &job, candidates)
				if err != nil {
					return err
				}
			} else {
				report, err = svc.Rank(cmd.Context(), &job, candidates)
				if err != nil {
					return err
				}
			}
			if report.SnapshotErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", report.SnapshotErr)
			}

			out := cmd.OutOrStdout()
			if !plain && isTerminal(out) {
				status := fmt.Sprintf("%d resumes ranked, %d skipped. Up/down to browse, Esc to quit.", len(report.Results), len(skipped))
				_, err := tea.NewProgram(tui.New(job.ID, report.Results, status)).Run()
				return err
			}
			writePlain(out, job.ID, report.Results)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobPath, "job", "", "Job description file")
	cmd.Flags().StringVar(&vocabPath, "vocabulary", "", "Reuse the vocabulary stored in this snapshot instead of fitting a new one")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a table instead of starting the interactive view")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writePlain(w io.Writer, job string, results domain.RankedResult) {
	fmt.Fprintf(w, "Job description: %s\n", job)
	if len(results) == 0 {
		fmt.Fprintln(w, "No resumes to rank.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Resume", "Score", "Match"})
	for i, r := range results {
		t.AppendRow(table.Row{i + 1, r.ID, fmt.Sprintf("%.6f", r.Score), r.Percentage + "%"})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Fprintln(w)
	for _, s := range ranker.Summaries(results) {
		fmt.Fprint(w, s)
	}
}
