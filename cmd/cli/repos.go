package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/pullpilot/internal/core"
)

var reposJSON bool

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List the repositories connected by the current user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		repos, err := s.app.Store.ListRepositories(cmd.Context(), s.user.ID)
		if err != nil {
			return fmt.Errorf("failed to retrieve repositories: %w", err)
		}

		if reposJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(repos)
		}
		if len(repos) == 0 {
			dimColor.Println("No repositories connected. Use 'pullpilot repos connect owner/name'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tREPOSITORY\tACTIVE\tCONNECTED")
		for _, repo := range repos {
			fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", repo.ID, repo.FullName, repo.IsActive, repo.CreatedAt.Format(time.RFC822))
		}
		return w.Flush()
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect owner/name",
	Short: "Connect a repository so its pull requests can be reviewed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := core.SplitFullName(args[0]); err != nil {
			return err
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		repo, err := s.app.Store.ConnectRepository(cmd.Context(), s.user.ID, args[0])
		if err != nil {
			return err
		}
		successColor.Printf("Connected %s ", repo.FullName)
		dimColor.Printf("(repository id %d)\n", repo.ID)
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <repository-id>",
	Short: "Disconnect a repository; its review history is kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid repository id %q", args[0])
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		repo, err := s.app.Service.DisconnectRepository(cmd.Context(), s.user.ID, id)
		if err != nil {
			return err
		}
		successColor.Printf("Disconnected %s ", repo.FullName)
		dimColor.Println("(reconnect with 'pullpilot repos connect " + repo.FullName + "')")
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reposCmd.Flags().BoolVar(&reposJSON, "json", false, "Output repositories as JSON")
	reposCmd.AddCommand(connectCmd)
	reposCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(reposCmd)
}
