package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cashflow-insight/internal/models"
)

// Table is a validated-but-untyped CSV table: a header plus string records.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// ReadTable parses CSV from r, stripping blank and auto-generated index
// columns ("Unnamed: N" artifacts from spreadsheet exports).
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	keep := make([]int, 0, len(header))
	columns := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "Unnamed:") {
			continue
		}
		keep = append(keep, i)
		columns = append(columns, name)
	}

	var rows [][]string
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV line %d: %w", line, err)
		}
		row := make([]string, len(keep))
		for j, i := range keep {
			if i < len(record) {
				row[j] = record[i]
			}
		}
		rows = append(rows, row)
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &Table{Columns: columns, Rows: rows, index: index}, nil
}

// Validate checks the required-column contract for the given kind.
func Validate(kind Kind, t *Table) error {
	var missing []string
	for _, c := range RequiredColumns[kind] {
		if _, ok := t.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Kind: kind, Missing: missing, Available: t.Columns}
	}
	return nil
}

func (t *Table) get(row []string, col string) string {
	return strings.TrimSpace(row[t.index[col]])
}

func (t *Table) getFloat(row []string, col string, line int) (float64, error) {
	raw := t.get(row, col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid numeric value %q in column %s", line, raw, col)
	}
	return v, nil
}

// DecodeTransactions validates and decodes a transactions table.
func DecodeTransactions(t *Table) ([]models.Transaction, error) {
	if err := Validate(KindTransactions, t); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2 // header is line 1
		tx := models.Transaction{
			Date:          t.get(row, "date"),
			TransactionID: t.get(row, "transaction_id"),
			ProductID:     t.get(row, "product_id"),
			ProductName:   t.get(row, "product_name"),
			Category:      t.get(row, "category"),
			PaymentType:   t.get(row, "payment_type"),
		}
		var err error
		if tx.Quantity, err = t.getFloat(row, "quantity", line); err != nil {
			return nil, err
		}
		if tx.UnitPrice, err = t.getFloat(row, "unit_price", line); err != nil {
			return nil, err
		}
		if tx.GrossSales, err = t.getFloat(row, "gross_sales", line); err != nil {
			return nil, err
		}
		if tx.Discount, err = t.getFloat(row, "discount", line); err != nil {
			return nil, err
		}
		if tx.NetSales, err = t.getFloat(row, "net_sales", line); err != nil {
			return nil, err
		}
		if tx.Tax, err = t.getFloat(row, "tax", line); err != nil {
			return nil, err
		}
		if tx.LineTotal, err = t.getFloat(row, "line_total", line); err != nil {
			return nil, err
		}
		if tx.TipAmount, err = t.getFloat(row, "tip_amount", line); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// DecodeRefunds validates and decodes a refunds table.
func DecodeRefunds(t *Table) ([]models.Refund, error) {
	if err := Validate(KindRefunds, t); err != nil {
		return nil, err
	}
	out := make([]models.Refund, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2
		rf := models.Refund{
			OriginalTransactionID: t.get(row, "original_transaction_id"),
			RefundDate:            t.get(row, "refund_date"),
		}
		var err error
		if rf.RefundAmount, err = t.getFloat(row, "refund_amount", line); err != nil {
			return nil, err
		}
		out = append(out, rf)
	}
	return out, nil
}

// DecodePayouts validates and decodes a payouts table.
func DecodePayouts(t *Table) ([]models.Payout, error) {
	if err := Validate(KindPayouts, t); err != nil {
		return nil, err
	}
	out := make([]models.Payout, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2
		po := models.Payout{
			CoveringSalesDate: t.get(row, "covering_sales_date"),
			PayoutDate:        t.get(row, "payout_date"),
		}
		var err error
		if po.GrossCardVolume, err = t.getFloat(row, "gross_card_volume", line); err != nil {
			return nil, err
		}
		if po.ProcessorFees, err = t.getFloat(row, "processor_fees", line); err != nil {
			return nil, err
		}
		if po.NetPayoutAmount, err = t.getFloat(row, "net_payout_amount", line); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, nil
}

// DecodeProducts validates and decodes a product-master table. Duplicate
// product ids make the COGS join ambiguous and are rejected.
func DecodeProducts(t *Table) ([]models.Product, error) {
	if err := Validate(KindProducts, t); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(t.Rows))
	seen := make(map[string]bool, len(t.Rows))
	var dups []string
	for i, row := range t.Rows {
		line := i + 2
		p := models.Product{
			ProductID:   t.get(row, "product_id"),
			ProductName: t.get(row, "product_name"),
			Category:    t.get(row, "category"),
		}
		var err error
		if p.COGS, err = t.getFloat(row, "cogs", line); err != nil {
			return nil, err
		}
		if seen[p.ProductID] {
			dups = append(dups, p.ProductID)
		}
		seen[p.ProductID] = true
		out = append(out, p)
	}
	if len(dups) > 0 {
		return nil, &DuplicateIDError{Kind: KindProducts, IDs: dups}
	}
	return out, nil
}
