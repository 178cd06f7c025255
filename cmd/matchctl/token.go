package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	tokenCmd := &cobra.Command{
		Use:   "token USERNAME",
		Short: "Mint a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.JWT == nil {
				return errors.New("auth is disabled: set AUTH_JWT_SECRET")
			}
			tok, err := container.JWT.GenerateToken(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	rootCmd.AddCommand(tokenCmd)
}
