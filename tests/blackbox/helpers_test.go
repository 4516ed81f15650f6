//go:build blackbox

package blackbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

const ledgerHeader = "Ticket\tItem\tType\tSize\tOpen Time\tOpen Price\tClose Time\tClose Price\tS/L\tT/P\tCommission\tSwap\tProfit\tComment"

// writeLedger writes a broker export with the given profits, one USDJPY
// trade per day from 2024-01-02, after an opening deposit.
func writeLedger(t *testing.T, profits ...string) string {
	t.Helper()

	lines := []string{
		ledgerHeader,
		"1\t\tbalance\t\t2024.01.01 08:00:00\t\t\t\t\t\t\t\t1000000\tDeposit",
	}
	for i, p := range profits {
		day := 2 + i
		lines = append(lines, fmt.Sprintf(
			"%d\tUSDJPY\tbuy\t0.10\t2024.01.%02d 09:00:00\t145.000\t2024.01.%02d 15:00:00\t145.500\t0\t0\t-70\t0\t%s",
			100+i, day, day, p))
	}

	path := filepath.Join(t.TempDir(), "history.tsv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
