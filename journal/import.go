package journal

import (
	"time"

	"github.com/rustyeddy/tradelog/ledger"
	"github.com/rustyeddy/tradelog/metrics"
	"github.com/rustyeddy/tradelog/pkg/id"
	"github.com/rustyeddy/tradelog/risk"
)

// FromLedger converts parsed rows and balance adjustments into records
// owned by userID and dataset.
func FromLedger(l *ledger.Ledger, userID, dataset string) ([]TradeRecord, []Transaction) {
	now := time.Now().UTC()

	trades := make([]TradeRecord, 0, len(l.Rows))
	for _, r := range l.Rows {
		rec := TradeRecord{
			ID:         id.New(),
			UserID:     userID,
			Dataset:    dataset,
			Ticket:     r.Ticket,
			Item:       r.Item,
			Side:       r.Type,
			Size:       r.Size,
			OpenTime:   r.OpenTime,
			OpenPrice:  r.OpenPrice,
			CloseTime:  r.CloseTime,
			ClosePrice: r.ClosePrice,
			SL:         r.SL,
			TP:         r.TP,
			Commission: r.Commission,
			Swap:       r.Swap,
			Profit:     r.Profit,
			Comment:    r.Comment,
			Created:    now,
		}
		if r.OpenPrice > 0 && r.ClosePrice > 0 {
			rec.Pips = risk.Pips(r.Item, r.Type, r.OpenPrice, r.ClosePrice)
		}
		trades = append(trades, rec)
	}

	txs := make([]Transaction, 0, len(l.Adjustments))
	for _, a := range l.Adjustments {
		txs = append(txs, Transaction{
			ID:      id.New(),
			UserID:  userID,
			Dataset: dataset,
			Ticket:  a.Ticket,
			Time:    a.Time,
			Amount:  a.Amount,
			Comment: a.Comment,
			Created: now,
		})
	}
	return trades, txs
}

// MetricTrades projects stored records onto engine input.
func MetricTrades(recs []TradeRecord) []metrics.Trade {
	out := make([]metrics.Trade, len(recs))
	for i, r := range recs {
		out[i] = metrics.Trade{
			Ticket:    r.Ticket,
			Profit:    r.Profit,
			OpenTime:  r.OpenTime,
			CloseTime: r.CloseTime,
		}
	}
	return out
}
