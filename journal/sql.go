package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradelog/pkg/id"
)

// BatchSize is the number of rows sent per INSERT statement.
const BatchSize = 1000

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLStore implements Store over database/sql. Queries are written with ?
// placeholders and rebound for PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) rebind(q string) string {
	if s.dialect != dialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates missing tables and indexes.
func (s *SQLStore) Migrate(ctx context.Context) error {
	schema := SQLiteSchema
	if s.dialect == dialectPostgres {
		schema = PostgresSchema
	}
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

const tradeColumns = "id, user_id, dataset, ticket, item, side, size, open_time, open_price, close_time, close_price, sl, tp, commission, swap, profit, pips, comment, created"

const transactionColumns = "id, user_id, dataset, ticket, time, amount, comment, created"

// inTx runs fn in a transaction, committing only when fn succeeds.
func (s *SQLStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) InsertTrades(ctx context.Context, recs []TradeRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	var n int
	err := s.inTx(ctx, func(tx *sql.Tx) (err error) {
		n, err = s.insertTrades(ctx, tx, recs)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLStore) InsertTransactions(ctx context.Context, txs []Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	var n int
	err := s.inTx(ctx, func(tx *sql.Tx) (err error) {
		n, err = s.insertTransactions(ctx, tx, txs)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLStore) Import(ctx context.Context, recs []TradeRecord, txs []Transaction) (ImportCounts, error) {
	var c ImportCounts
	if len(recs) == 0 && len(txs) == 0 {
		return c, nil
	}
	err := s.inTx(ctx, func(tx *sql.Tx) (err error) {
		if c.Trades, err = s.insertTrades(ctx, tx, recs); err != nil {
			return err
		}
		c.Transactions, err = s.insertTransactions(ctx, tx, txs)
		return err
	})
	if err != nil {
		return ImportCounts{}, err
	}
	return c, nil
}

func (s *SQLStore) insertTrades(ctx context.Context, tx *sql.Tx, recs []TradeRecord) (int, error) {
	now := time.Now().UTC()
	return s.insertBatches(ctx, tx, "trades", tradeColumns, 19, len(recs), func(i int) []any {
		t := recs[i]
		if t.ID == "" {
			t.ID = id.New()
		}
		if t.Created.IsZero() {
			t.Created = now
		}
		return []any{
			t.ID, t.UserID, t.Dataset, t.Ticket, t.Item, t.Side, t.Size,
			t.OpenTime.UTC(), t.OpenPrice, t.CloseTime.UTC(), t.ClosePrice,
			t.SL, t.TP, t.Commission, t.Swap, t.Profit, t.Pips, t.Comment, t.Created.UTC(),
		}
	})
}

func (s *SQLStore) insertTransactions(ctx context.Context, tx *sql.Tx, txs []Transaction) (int, error) {
	now := time.Now().UTC()
	return s.insertBatches(ctx, tx, "transactions", transactionColumns, 8, len(txs), func(i int) []any {
		t := txs[i]
		if t.ID == "" {
			t.ID = id.New()
		}
		if t.Created.IsZero() {
			t.Created = now
		}
		return []any{t.ID, t.UserID, t.Dataset, t.Ticket, t.Time.UTC(), t.Amount, t.Comment, t.Created.UTC()}
	})
}

// insertBatches writes n rows within tx, BatchSize rows per statement, and
// returns the number actually inserted.
func (s *SQLStore) insertBatches(ctx context.Context, tx *sql.Tx, table, columns string, width, n int, row func(int) []any) (int, error) {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", width), ", ") + ")"
	inserted := 0
	for start := 0; start < n; start += BatchSize {
		end := min(start+BatchSize, n)

		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*width)
		for i := start; i < end; i++ {
			values = append(values, placeholder)
			args = append(args, row(i)...)
		}

		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT (user_id, dataset, ticket) DO NOTHING",
			table, columns, strings.Join(values, ", "))
		res, err := tx.ExecContext(ctx, s.rebind(q), args...)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", table, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}
	return inserted, nil
}

func (s *SQLStore) DeleteDataset(ctx context.Context, userID, dataset string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM trades WHERE user_id = ? AND dataset = ?`), userID, dataset)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM transactions WHERE user_id = ? AND dataset = ?`), userID, dataset); err != nil {
		return 0, err
	}
	return int(n), tx.Commit()
}

// nullTime scans timestamps the driver hands back as text, which SQLite does
// for aggregates such as MIN and MAX.
type nullTime struct {
	t *time.Time
}

func (n nullTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		*n.t = time.Time{}
		return nil
	case time.Time:
		*n.t = x.UTC()
		return nil
	case []byte:
		return n.parse(string(x))
	case string:
		return n.parse(x)
	}
	return fmt.Errorf("cannot scan %T into time", v)
}

func (n nullTime) parse(s string) error {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*n.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse time %q", s)
}
