package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an API bearer token for the current user",
	Long: `Print an API bearer token for the current user. The token is signed with
JWT_SECRET and can be sent to the API server as "Authorization: Bearer <token>".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.app.Cfg.ValidateForServer(); err != nil {
			return err
		}
		token, err := s.app.Tokens.Issue(s.user.ID)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}
		fmt.Println(token)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(tokenCmd)
}
