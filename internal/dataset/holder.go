package dataset

import (
	"sync"

	"cashflow-insight/internal/models"
)

// Update carries a partial dataset replacement. Nil slices leave the
// corresponding table untouched.
type Update struct {
	Transactions []models.Transaction
	Refunds      []models.Refund
	Payouts      []models.Payout
	Products     []models.Product
}

// Holder owns the current dataset. Writers swap in a fresh snapshot under
// the lock; readers receive an immutable-by-convention pointer, so an
// in-flight analysis always sees a consistent dataset even if an upload
// lands mid-computation.
type Holder struct {
	mu  sync.RWMutex
	cur *models.Dataset
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set applies a partial update: provided tables replace the current ones,
// absent tables retain prior values.
func (h *Holder) Set(u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := &models.Dataset{}
	if h.cur != nil {
		*next = *h.cur
	}
	if u.Transactions != nil {
		next.Transactions = u.Transactions
	}
	if u.Refunds != nil {
		next.Refunds = u.Refunds
	}
	if u.Payouts != nil {
		next.Payouts = u.Payouts
	}
	if u.Products != nil {
		next.Products = u.Products
	}
	h.cur = next
}

// Replace swaps in a complete dataset (used when re-loading persisted files
// at startup).
func (h *Holder) Replace(ds *models.Dataset) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = ds
}

// Get returns the current dataset snapshot. The dataset counts as loaded
// once transactions have been set; anything less is ErrNoData.
func (h *Holder) Get() (*models.Dataset, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.cur == nil || h.cur.Transactions == nil {
		return nil, ErrNoData
	}
	return h.cur, nil
}

// Reset clears the current dataset.
func (h *Holder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = nil
}

// Status reports per-table load state without requiring a full dataset.
func (h *Holder) Status() models.DatasetStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var st models.DatasetStatus
	if h.cur == nil {
		return st
	}
	st.Transactions = models.TableStatus{Loaded: h.cur.Transactions != nil, Rows: len(h.cur.Transactions)}
	st.Refunds = models.TableStatus{Loaded: h.cur.Refunds != nil, Rows: len(h.cur.Refunds)}
	st.Payouts = models.TableStatus{Loaded: h.cur.Payouts != nil, Rows: len(h.cur.Payouts)}
	st.Products = models.TableStatus{Loaded: h.cur.Products != nil, Rows: len(h.cur.Products)}
	return st
}
