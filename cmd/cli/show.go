package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sevigo/pullpilot/internal/render"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <review-id>",
	Short: "Show a review and its analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid review id %q", args[0])
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		job, err := s.app.Service.Get(cmd.Context(), s.user.ID, id)
		if err != nil {
			return err
		}
		if showJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(job)
		}
		fmt.Print(render.Terminal(job, 100))
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output the review as JSON")
	rootCmd.AddCommand(showCmd)
}
