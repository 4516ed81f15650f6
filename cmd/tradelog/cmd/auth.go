package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API credentials",
}

var authHashCmd = &cobra.Command{
	Use:   "hash [password]",
	Short: "Print a bcrypt hash for auth.password_hash",
	Long: `Hash a password for the API's basic auth gate. The password is read from
standard input when not given as an argument.

Example:
  echo -n 's3cret' | tradelog auth hash`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthHash,
}

var authCost int

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authHashCmd)

	authHashCmd.Flags().IntVar(&authCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
}

func runAuthHash(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no password on stdin")
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("empty password")
	}

	cost := authCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be within %d..%d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}
