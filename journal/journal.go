// Package journal persists imported trades and account transactions per user
// and dataset, over SQLite or PostgreSQL.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradelog/config"
)

// TradeRecord is one closed trade as stored.
type TradeRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Dataset    string    `json:"dataset"`
	Ticket     string    `json:"ticket"`
	Item       string    `json:"item"`
	Side       string    `json:"side"`
	Size       float64   `json:"size"`
	OpenTime   time.Time `json:"open_time"`
	OpenPrice  float64   `json:"open_price"`
	CloseTime  time.Time `json:"close_time"`
	ClosePrice float64   `json:"close_price"`
	SL         float64   `json:"sl"`
	TP         float64   `json:"tp"`
	Commission float64   `json:"commission"`
	Swap       float64   `json:"swap"`
	Profit     float64   `json:"profit"`
	Pips       float64   `json:"pips"`
	Comment    string    `json:"comment"`
	Created    time.Time `json:"created"`
}

// Transaction is a deposit, withdrawal or other balance adjustment.
type Transaction struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Dataset string    `json:"dataset"`
	Ticket  string    `json:"ticket"`
	Time    time.Time `json:"time"`
	Amount  float64   `json:"amount"`
	Comment string    `json:"comment"`
	Created time.Time `json:"created"`
}

// DatasetInfo summarises one dataset of a user.
type DatasetInfo struct {
	Dataset    string    `json:"dataset"`
	Trades     int       `json:"trades"`
	Profit     float64   `json:"profit"`
	FirstClose time.Time `json:"first_close"`
	LastClose  time.Time `json:"last_close"`
}

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrInvalidUserID = errors.New("invalid user id")
)

// ImportCounts reports how many rows an Import added.
type ImportCounts struct {
	Trades       int `json:"trades"`
	Transactions int `json:"transactions"`
}

// Store is the trade persistence boundary. Inserts ignore rows whose
// (user, dataset, ticket) already exists and report how many were added.
type Store interface {
	InsertTrades(ctx context.Context, recs []TradeRecord) (int, error)
	InsertTransactions(ctx context.Context, txs []Transaction) (int, error)

	// Import writes trades and transactions atomically: on error neither
	// is stored.
	Import(ctx context.Context, recs []TradeRecord, txs []Transaction) (ImportCounts, error)

	// DeleteDataset removes trades and transactions and returns the number
	// of trades removed.
	DeleteDataset(ctx context.Context, userID, dataset string) (int, error)

	// ListTrades returns trades in close_time order.
	ListTrades(ctx context.Context, userID, dataset string) ([]TradeRecord, error)
	ListTransactions(ctx context.Context, userID, dataset string) ([]Transaction, error)
	ListDatasets(ctx context.Context, userID string) ([]DatasetInfo, error)
	GetTrade(ctx context.Context, userID, id string) (TradeRecord, error)

	// ListTradesClosedBetween returns trades of every dataset whose
	// close_time is within [start, end).
	ListTradesClosedBetween(ctx context.Context, userID string, start, end time.Time) ([]TradeRecord, error)

	Close() error
}

// Open returns the store selected by cfg.
func Open(cfg config.JournalConfig) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLite(cfg.DBPath)
	case "postgres":
		return NewPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}
