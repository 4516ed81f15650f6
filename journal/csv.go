package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var tradeCSVHeader = []string{
	"id", "ticket", "item", "side", "size",
	"open_time", "open_price", "close_time", "close_price",
	"sl", "tp", "commission", "swap", "profit", "pips", "comment",
}

// WriteTradesCSV writes a header and one line per trade.
func WriteTradesCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeCSVHeader); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.ID,
			t.Ticket,
			t.Item,
			t.Side,
			f(t.Size),
			t.OpenTime.UTC().Format(time.RFC3339),
			f(t.OpenPrice),
			t.CloseTime.UTC().Format(time.RFC3339),
			f(t.ClosePrice),
			f(t.SL),
			f(t.TP),
			f(t.Commission),
			f(t.Swap),
			f(t.Profit),
			strconv.FormatFloat(t.Pips, 'f', 1, 64),
			t.Comment,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
