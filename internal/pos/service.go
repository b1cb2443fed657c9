package pos

import (
	"context"
	"log"
	"time"

	"github.com/gulfretail/gulfposgo/internal/store"
)

// Notifier receives domain events (sale recorded, transaction undone,
// invoice edited) for fan-out to connected terminals. Implemented by
// the websocket hub; nil disables notifications.
type Notifier interface {
	Notify(event string, payload interface{})
}

// Service holds the POS business logic: checkout, transaction grouping,
// reversal, invoice editing and restocking. All persistence goes
// through the Store interface; the service itself never talks SQL.
type Service struct {
	store    store.Store
	notifier Notifier
	journal  *UndoJournal
}

// NewService creates a Service over the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// SetNotifier wires the live event feed. Safe to leave unset.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// SetUndoJournal wires the local fallback journal used when the
// undo-log table cannot be written.
func (s *Service) SetUndoJournal(j *UndoJournal) { s.journal = j }

func (s *Service) notify(event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(event, payload)
	}
}

func (s *Service) logf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// ListTransactions loads sale lines matching the query and groups them
// into logical transactions.
func (s *Service) ListTransactions(ctx context.Context, q store.SaleQuery) ([]Transaction, error) {
	items, err := s.store.ListSaleItems(ctx, q)
	if err != nil {
		return nil, persistErr("sales listing", err)
	}
	return GroupTransactions(items), nil
}

// DailySummary aggregates one day of trading for dashboards and the
// sales assistant.
type DailySummary struct {
	Date         string  `json:"date"`
	Transactions int     `json:"transactions"`
	ItemsSold    int     `json:"items_sold"`
	GrossTotal   float64 `json:"gross_total"`
	Subtotal     float64 `json:"subtotal"`
	VAT          float64 `json:"vat"`
}

// ReportDaily computes the summary for the day containing ts (UTC).
func (s *Service) ReportDaily(ctx context.Context, ts time.Time) (*DailySummary, error) {
	day := ts.UTC().Truncate(24 * time.Hour)
	txs, err := s.ListTransactions(ctx, store.SaleQuery{From: day, To: day.Add(24 * time.Hour)})
	if err != nil {
		return nil, err
	}
	sum := &DailySummary{Date: day.Format("2006-01-02"), Transactions: len(txs)}
	for _, tx := range txs {
		sum.ItemsSold += tx.ItemCount
		sum.GrossTotal += tx.TotalAmount
	}
	sum.GrossTotal = Round2(sum.GrossTotal)
	sum.Subtotal, sum.VAT = VATBreakdown(sum.GrossTotal)
	return sum, nil
}
