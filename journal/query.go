package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Dataset,
		&rec.Ticket,
		&rec.Item,
		&rec.Side,
		&rec.Size,
		nullTime{&rec.OpenTime},
		&rec.OpenPrice,
		nullTime{&rec.CloseTime},
		&rec.ClosePrice,
		&rec.SL,
		&rec.TP,
		&rec.Commission,
		&rec.Swap,
		&rec.Profit,
		&rec.Pips,
		&rec.Comment,
		nullTime{&rec.Created},
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (s *SQLStore) GetTrade(ctx context.Context, userID, tradeID string) (TradeRecord, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ? AND id = ?`), userID, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

func (s *SQLStore) ListTrades(ctx context.Context, userID, dataset string) ([]TradeRecord, error) {
	return s.queryTrades(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ? AND dataset = ?
		ORDER BY close_time ASC, id ASC`, userID, dataset)
}

// ListTradesClosedBetween returns trades whose close_time is within [start, end).
func (s *SQLStore) ListTradesClosedBetween(ctx context.Context, userID string, start, end time.Time) ([]TradeRecord, error) {
	return s.queryTrades(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ? AND close_time >= ? AND close_time < ?
		ORDER BY close_time ASC, id ASC`, userID, start.UTC(), end.UTC())
}

func (s *SQLStore) queryTrades(ctx context.Context, q string, args ...any) ([]TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) ListTransactions(ctx context.Context, userID, dataset string) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND dataset = ?
		ORDER BY time ASC, id ASC`), userID, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Dataset,
			&t.Ticket,
			nullTime{&t.Time},
			&t.Amount,
			&t.Comment,
			nullTime{&t.Created},
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) ListDatasets(ctx context.Context, userID string) ([]DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT dataset, COUNT(*), COALESCE(SUM(profit), 0), MIN(close_time), MAX(close_time)
		FROM trades
		WHERE user_id = ?
		GROUP BY dataset
		ORDER BY dataset ASC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var d DatasetInfo
		if err := rows.Scan(
			&d.Dataset,
			&d.Trades,
			&d.Profit,
			nullTime{&d.FirstClose},
			nullTime{&d.LastClose},
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
