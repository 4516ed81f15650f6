package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/ledger"
	"github.com/rustyeddy/tradelog/metrics"
	"github.com/rustyeddy/tradelog/report"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// ImportResult reports what a ledger upload added.
type ImportResult struct {
	Dataset           string `json:"dataset"`
	Rows              int    `json:"rows"`
	Adjustments       int    `json:"adjustments"`
	TradesAdded       int    `json:"trades_added"`
	TransactionsAdded int    `json:"transactions_added"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, details ...string) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Details: details})
}

var errBadLedger = errors.New("bad ledger")

// fail maps err onto a status code. Unexpected errors are logged and hidden.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var tooBig *http.MaxBytesError

	switch {
	case errors.As(err, &tooBig):
		writeError(w, http.StatusRequestEntityTooLarge, tooBig)
	case errors.Is(err, metrics.ErrInsufficientData), errors.Is(err, metrics.ErrNonFinite):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, journal.ErrInvalidUserID), errors.Is(err, errBadLedger):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, journal.ErrTradeNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func userID(r *http.Request) (string, error) {
	return journal.ParseUserID(mux.Vars(r)["user"])
}

// compute runs the engine and records the outcome.
func (s *Server) compute(trades []metrics.Trade) (metrics.Result, error) {
	start := time.Now()
	res, err := metrics.Compute(trades)
	s.metrics.ComputeSeconds.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		s.metrics.Computations.WithLabelValues(OutcomeOK).Inc()
	case errors.Is(err, metrics.ErrInsufficientData):
		s.metrics.Computations.WithLabelValues(OutcomeInsufficient).Inc()
	default:
		s.metrics.Computations.WithLabelValues(OutcomeError).Inc()
	}
	return res, err
}

// respondReport writes sum as JSON, Org or plain text per ?format=.
func respondReport(w http.ResponseWriter, r *http.Request, sum report.Summary) {
	switch r.URL.Query().Get("format") {
	case "org":
		w.Header().Set("Content-Type", "text/org; charset=utf-8")
		report.WriteOrg(w, sum)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		report.PrintText(w, sum)
	default:
		writeJSON(w, http.StatusOK, sum)
	}
}

// readLedger parses a ledger from the request body.
func (s *Server) readLedger(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	l, err := ledger.Parse(body, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadLedger, err)
	}
	return l, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "OK")
}

// handleComputeLedger computes metrics for an uploaded ledger without
// storing it. Query parameters symbol, side and outcome narrow the rows.
func (s *Server) handleComputeLedger(w http.ResponseWriter, r *http.Request) {
	l, err := s.readLedger(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	l = l.Filter(ledger.Filter{
		Symbol:  q.Get("symbol"),
		Side:    q.Get("side"),
		Outcome: ledger.Outcome(q.Get("outcome")),
	})

	res, err := s.compute(l.Trades())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sum := report.New(res)
	sum.Source = "upload"
	acct := l.Summary()
	sum.Account = &acct
	respondReport(w, r, sum)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	infos, err := s.store.ListDatasets(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if infos == nil {
		infos = []journal.DatasetInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name := mux.Vars(r)["dataset"]

	infos, err := s.store.ListDatasets(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	for _, info := range infos {
		if info.Dataset == name {
			writeJSON(w, http.StatusOK, info)
			return
		}
	}
	writeError(w, http.StatusNotFound, errors.New("dataset not found"))
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name := mux.Vars(r)["dataset"]

	n, err := s.store.DeleteDataset(r.Context(), user, name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("dataset deleted", zap.String("user", user), zap.String("dataset", name), zap.Int("trades", n))
	writeJSON(w, http.StatusOK, map[string]any{"dataset": name, "deleted": n})
}

// handleListTrades returns JSON, or CSV with ?format=csv.
func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	trades, err := s.store.ListTrades(r.Context(), user, mux.Vars(r)["dataset"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := journal.WriteTradesCSV(w, trades); err != nil {
			s.log.Warn("csv write", zap.Error(err))
		}
		return
	}
	if trades == nil {
		trades = []journal.TradeRecord{}
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleDatasetMetrics(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name := mux.Vars(r)["dataset"]

	trades, err := s.store.ListTrades(r.Context(), user, name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.compute(journal.MetricTrades(trades))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sum := report.New(res)
	sum.UserID = user
	sum.Dataset = name
	respondReport(w, r, sum)
}

// handleImportLedger validates an uploaded ledger and stores it. Any invalid
// row rejects the whole upload.
func (s *Server) handleImportLedger(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name := mux.Vars(r)["dataset"]

	l, err := s.readLedger(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := ledger.Validate(l); err != nil {
		errs := multierr.Errors(err)
		details := make([]string, len(errs))
		for i, e := range errs {
			details[i] = e.Error()
		}
		writeError(w, http.StatusBadRequest, errors.New("invalid ledger"), details...)
		return
	}

	trades, txs := journal.FromLedger(l, user, name)
	added, err := s.store.Import(r.Context(), trades, txs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.ImportedRows.WithLabelValues("trade").Add(float64(added.Trades))
	s.metrics.ImportedRows.WithLabelValues("transaction").Add(float64(added.Transactions))

	s.log.Info("ledger imported",
		zap.String("user", user),
		zap.String("dataset", name),
		zap.Int("rows", len(trades)),
		zap.Int("added", added.Trades),
	)
	writeJSON(w, http.StatusOK, ImportResult{
		Dataset:           name,
		Rows:              len(l.Rows),
		Adjustments:       len(l.Adjustments),
		TradesAdded:       added.Trades,
		TransactionsAdded: added.Transactions,
	})
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.store.GetTrade(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
