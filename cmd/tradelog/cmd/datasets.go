package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the user's journal datasets",
	Args:  cobra.NoArgs,
	RunE:  runDatasets,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <dataset>",
	Short: "Delete a dataset's trades and transactions",
	Long: `Remove every trade and balance adjustment stored under the dataset for the
configured user. Asks for confirmation unless --yes is given.

Example:
  tradelog delete main --user alice --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteYes bool

func init() {
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")
}

func runDatasets(cmd *cobra.Command, args []string) error {
	user, err := currentUser()
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.ListDatasets(cmd.Context(), user)
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintf(out, "no datasets for %s\n", user)
		return nil
	}
	fmt.Fprintf(out, "%-20s %8s %14s  %-10s  %-10s\n", "DATASET", "TRADES", "PROFIT", "FIRST", "LAST")
	for _, d := range infos {
		fmt.Fprintf(out, "%-20s %8d %14.2f  %-10s  %-10s\n",
			d.Dataset, d.Trades, d.Profit,
			d.FirstClose.Format("2006-01-02"), d.LastClose.Format("2006-01-02"))
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	user, err := currentUser()
	if err != nil {
		return err
	}
	name := args[0]

	if !deleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete dataset %q for %s? [y/N] ", name, user)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.DeleteDataset(cmd.Context(), user, name)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	logger.Info("dataset deleted", zap.String("user", user), zap.String("dataset", name), zap.Int("trades", n))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ deleted %d trades from %s\n", n, name)
	return nil
}
