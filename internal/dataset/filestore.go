package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cashflow-insight/internal/models"
)

// FileStore persists uploaded tables as CSV files so a restart can re-load
// them without a fresh upload.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (fs *FileStore) path(kind Kind) string {
	return filepath.Join(fs.dir, FileNames[kind])
}

// LoadTable reads the persisted CSV for kind. A missing file returns
// *NotFoundError instructing the caller to upload data.
func (fs *FileStore) LoadTable(kind Kind) (*Table, error) {
	path := fs.path(kind)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Kind: kind, Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// Load reads all four persisted tables into a dataset. Tables other than
// transactions are optional; transactions must exist.
func (fs *FileStore) Load() (*models.Dataset, error) {
	ds := &models.Dataset{}

	t, err := fs.LoadTable(KindTransactions)
	if err != nil {
		return nil, err
	}
	if ds.Transactions, err = DecodeTransactions(t); err != nil {
		return nil, err
	}

	if t, err = fs.LoadTable(KindRefunds); err == nil {
		if ds.Refunds, err = DecodeRefunds(t); err != nil {
			return nil, err
		}
	} else if _, ok := err.(*NotFoundError); !ok {
		return nil, err
	}

	if t, err = fs.LoadTable(KindPayouts); err == nil {
		if ds.Payouts, err = DecodePayouts(t); err != nil {
			return nil, err
		}
	} else if _, ok := err.(*NotFoundError); !ok {
		return nil, err
	}

	if t, err = fs.LoadTable(KindProducts); err == nil {
		if ds.Products, err = DecodeProducts(t); err != nil {
			return nil, err
		}
	} else if _, ok := err.(*NotFoundError); !ok {
		return nil, err
	}

	return ds, nil
}

// SaveTable writes one table kind back to disk as CSV.
func (fs *FileStore) SaveTable(kind Kind, t *Table) error {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	path := fs.path(kind)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// Clear deletes all persisted table files. Missing files are not an error.
func (fs *FileStore) Clear() error {
	for _, kind := range Kinds {
		if err := os.Remove(fs.path(kind)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s data: %w", kind, err)
		}
	}
	return nil
}

// formatFloat renders a float the way we persist numeric CSV cells.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TransactionsTable converts decoded transactions back into a writable table.
func TransactionsTable(rows []models.Transaction) *Table {
	t := &Table{Columns: RequiredColumns[KindTransactions]}
	for _, tx := range rows {
		t.Rows = append(t.Rows, []string{
			tx.Date, tx.TransactionID, tx.ProductID, tx.ProductName, tx.Category,
			formatFloat(tx.Quantity), formatFloat(tx.UnitPrice), formatFloat(tx.GrossSales),
			formatFloat(tx.Discount), formatFloat(tx.NetSales), formatFloat(tx.Tax),
			formatFloat(tx.LineTotal), tx.PaymentType, formatFloat(tx.TipAmount),
		})
	}
	return t
}

// RefundsTable converts decoded refunds back into a writable table.
func RefundsTable(rows []models.Refund) *Table {
	t := &Table{Columns: RequiredColumns[KindRefunds]}
	for _, rf := range rows {
		t.Rows = append(t.Rows, []string{
			rf.OriginalTransactionID, rf.RefundDate, formatFloat(rf.RefundAmount),
		})
	}
	return t
}

// PayoutsTable converts decoded payouts back into a writable table.
func PayoutsTable(rows []models.Payout) *Table {
	t := &Table{Columns: RequiredColumns[KindPayouts]}
	for _, po := range rows {
		t.Rows = append(t.Rows, []string{
			po.CoveringSalesDate, formatFloat(po.GrossCardVolume), formatFloat(po.ProcessorFees),
			formatFloat(po.NetPayoutAmount), po.PayoutDate,
		})
	}
	return t
}

// ProductsTable converts decoded products back into a writable table.
func ProductsTable(rows []models.Product) *Table {
	t := &Table{Columns: RequiredColumns[KindProducts]}
	for _, p := range rows {
		t.Rows = append(t.Rows, []string{
			p.ProductID, p.ProductName, p.Category, formatFloat(p.COGS),
		})
	}
	return t
}
