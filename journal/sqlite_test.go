package journal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"

func newTestSQLite(t *testing.T) (*SQLStore, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

var base = time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)

func trade(dataset, ticket string, profit float64, closeAfter time.Duration) TradeRecord {
	return TradeRecord{
		UserID:     testUser,
		Dataset:    dataset,
		Ticket:     ticket,
		Item:       "EURUSD",
		Side:       "buy",
		Size:       1,
		OpenTime:   base,
		OpenPrice:  1.085,
		CloseTime:  base.Add(closeAfter),
		ClosePrice: 1.0875,
		Profit:     profit,
		Pips:       25,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','transactions')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["transactions"])
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reopen.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	_, err = j.InsertTrades(context.Background(), []TradeRecord{trade("main", "1", 10, time.Hour)})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	got, err := j.ListTrades(context.Background(), testUser, "main")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteInsertTradesIgnoresDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	n, err := j.InsertTrades(ctx, []TradeRecord{
		trade("main", "1", 100, time.Hour),
		trade("main", "2", -50, 2*time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = j.InsertTrades(ctx, []TradeRecord{
		trade("main", "2", -50, 2*time.Hour),
		trade("main", "3", 25, 3*time.Hour),
		trade("other", "2", 1, time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := j.ListTrades(ctx, testUser, "main")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	n, err = j.InsertTrades(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteInsertTradesBatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	recs := make([]TradeRecord, BatchSize*2+5)
	for i := range recs {
		recs[i] = trade("bulk", fmt.Sprintf("%05d", i), float64(i%7-3), time.Duration(i)*time.Minute)
	}

	n, err := j.InsertTrades(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, len(recs), n)

	got, err := j.ListTrades(ctx, testUser, "bulk")
	require.NoError(t, err)
	require.Len(t, got, len(recs))
	assert.Equal(t, "00000", got[0].Ticket)
	assert.Equal(t, fmt.Sprintf("%05d", len(recs)-1), got[len(got)-1].Ticket)
}

func TestSQLiteListTradesOrderedByClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	_, err := j.InsertTrades(ctx, []TradeRecord{
		trade("main", "late", 1, 5*time.Hour),
		trade("main", "early", 2, time.Hour),
		trade("main", "mid", 3, 3*time.Hour),
	})
	require.NoError(t, err)

	got, err := j.ListTrades(ctx, testUser, "main")
	require.NoError(t, err)

	var tickets []string
	for _, r := range got {
		tickets = append(tickets, r.Ticket)
	}
	assert.Equal(t, []string{"early", "mid", "late"}, tickets)

	assert.Equal(t, "EURUSD", got[0].Item)
	assert.InDelta(t, 1.085, got[0].OpenPrice, 1e-9)
	assert.True(t, got[0].CloseTime.Equal(base.Add(time.Hour)))
	assert.Len(t, got[0].ID, 26)
	assert.False(t, got[0].Created.IsZero())

	other, err := j.ListTrades(ctx, "someone-else", "main")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSQLiteTransactions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	txs := []Transaction{
		{UserID: testUser, Dataset: "main", Ticket: "9002", Time: base.Add(48 * time.Hour), Amount: -20000},
		{UserID: testUser, Dataset: "main", Ticket: "9001", Time: base, Amount: 100000, Comment: "Deposit"},
	}
	n, err := j.InsertTransactions(ctx, txs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = j.InsertTransactions(ctx, txs[:1])
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := j.ListTransactions(ctx, testUser, "main")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "9001", got[0].Ticket)
	assert.Equal(t, 100000.0, got[0].Amount)
	assert.Equal(t, "Deposit", got[0].Comment)
	assert.True(t, got[1].Time.Equal(base.Add(48*time.Hour)))
}

func TestSQLiteImport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	recs := []TradeRecord{trade("main", "1", 10, time.Hour), trade("main", "2", -5, 2*time.Hour)}
	txs := []Transaction{{UserID: testUser, Dataset: "main", Ticket: "9", Time: base, Amount: 500}}

	got, err := j.Import(ctx, recs, txs)
	require.NoError(t, err)
	assert.Equal(t, ImportCounts{Trades: 2, Transactions: 1}, got)

	got, err = j.Import(ctx, recs, txs)
	require.NoError(t, err)
	assert.Equal(t, ImportCounts{}, got)

	got, err = j.Import(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ImportCounts{}, got)
}

func TestSQLiteImportIsAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	_, err := j.db.ExecContext(ctx, `DROP TABLE transactions`)
	require.NoError(t, err)

	_, err = j.Import(ctx,
		[]TradeRecord{trade("main", "1", 10, time.Hour)},
		[]Transaction{{UserID: testUser, Dataset: "main", Ticket: "9", Time: base, Amount: 500}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert transactions")

	stored, err := j.ListTrades(ctx, testUser, "main")
	require.NoError(t, err)
	assert.Empty(t, stored, "trades are rolled back with the failed transactions")
}

func TestSQLiteDeleteDataset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	_, err := j.InsertTrades(ctx, []TradeRecord{
		trade("main", "1", 1, time.Hour),
		trade("main", "2", 1, time.Hour),
		trade("keep", "1", 1, time.Hour),
	})
	require.NoError(t, err)
	_, err = j.InsertTransactions(ctx, []Transaction{{UserID: testUser, Dataset: "main", Ticket: "9", Time: base, Amount: 5}})
	require.NoError(t, err)

	n, err := j.DeleteDataset(ctx, testUser, "main")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := j.ListTrades(ctx, testUser, "main")
	require.NoError(t, err)
	assert.Empty(t, got)

	txs, err := j.ListTransactions(ctx, testUser, "main")
	require.NoError(t, err)
	assert.Empty(t, txs)

	kept, err := j.ListTrades(ctx, testUser, "keep")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestSQLiteListDatasets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)

	_, err := j.InsertTrades(ctx, []TradeRecord{
		trade("b", "1", 100, time.Hour),
		trade("b", "2", -30, 26*time.Hour),
		trade("a", "1", 5, 2*time.Hour),
	})
	require.NoError(t, err)

	got, err := j.ListDatasets(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].Dataset)
	assert.Equal(t, 1, got[0].Trades)

	assert.Equal(t, "b", got[1].Dataset)
	assert.Equal(t, 2, got[1].Trades)
	assert.InDelta(t, 70, got[1].Profit, 1e-9)
	assert.True(t, got[1].FirstClose.Equal(base.Add(time.Hour)), got[1].FirstClose)
	assert.True(t, got[1].LastClose.Equal(base.Add(26*time.Hour)), got[1].LastClose)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	_, err := Open(configFor("csv", ""))
	assert.Error(t, err)

	s, err := Open(configFor("sqlite", filepath.Join(t.TempDir(), "open.db")))
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
