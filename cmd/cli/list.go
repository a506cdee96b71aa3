package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/history"
)

var (
	listAll  bool
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list <repository-id>",
	Short: "List the reviews of a repository",
	Long: `List the reviews of a repository. By default only the latest review of each
pull request is shown, newest first; --all prints the full history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid repository id %q", args[0])
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		jobs, err := s.app.Service.ListByRepository(cmd.Context(), s.user.ID, repoID)
		if err != nil {
			return err
		}
		if !listAll {
			jobs = history.Reconcile(jobs)
		}

		if listJSON {
			if jobs == nil {
				jobs = []*core.ReviewJob{}
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(jobs)
		}
		if len(jobs) == 0 {
			dimColor.Println("No reviews yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tPR\tSTATUS\tFINDINGS\tSUBMITTED\tTITLE")
		for _, job := range jobs {
			fmt.Fprintf(w, "%d\t#%d\t%s\t%s\t%s\t%s\n",
				job.ID,
				job.PRNumber,
				statusColor(job.Status).Sprint(job.Status),
				findings(job),
				job.CreatedAt.Format(time.RFC822),
				job.PRTitle,
			)
		}
		return w.Flush()
	},
}

func statusColor(status core.ReviewStatus) *color.Color {
	switch status {
	case core.StatusCompleted:
		return successColor
	case core.StatusFailed:
		return errorColor
	default:
		return warnColor
	}
}

func findings(job *core.ReviewJob) string {
	switch {
	case job.AnalysisResult == nil:
		return "-"
	case job.AnalysisResult.IsRaw():
		return "raw"
	default:
		return strconv.Itoa(job.AnalysisResult.FindingCount())
	}
}

func init() { //nolint:gochecknoinits // Cobra command registration
	listCmd.Flags().BoolVar(&listAll, "all", false, "Show every review instead of the latest per pull request")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output reviews as JSON")
	rootCmd.AddCommand(listCmd)
}
