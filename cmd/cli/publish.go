package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sevigo/pullpilot/internal/core"
)

var publishYes bool

var publishCmd = &cobra.Command{
	Use:   "publish <review-id>",
	Short: "Post a completed review as a comment on its pull request",
	Long: `Post a completed review as a comment on its pull request.

The review is rendered as markdown and posted with the same credential used to
fetch the diff. Publishing twice posts two comments.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid review id %q", args[0])
		}
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		job, err := s.app.Service.Get(ctx, s.user.ID, id)
		if err != nil {
			return err
		}
		if !publishYes && !confirm(fmt.Sprintf("Post review #%d on PR #%d?", job.ID, job.PRNumber)) {
			dimColor.Println("Aborted.")
			return nil
		}

		url, err := s.app.Publisher.Publish(ctx, s.user.ID, id)
		if errors.Is(err, core.ErrNotCompleted) {
			return fmt.Errorf("%w\n\nTip: only completed reviews can be published; check it with 'pullpilot show %d'", err, id)
		}
		if err != nil {
			return err
		}
		successColor.Printf("Published: %s\n", url)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	publishCmd.Flags().BoolVarP(&publishYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(publishCmd)
}
