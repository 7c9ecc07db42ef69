package analysis

import "cashflow-insight/internal/models"

// BuildSnapshot summarises the loaded trading window: volumes, sales totals
// and the card/cash split, plus refund and payout aggregates.
func BuildSnapshot(en []models.EnrichedTransaction, refunds []models.Refund, payouts []models.Payout) models.Snapshot {
	var snap models.Snapshot
	if len(en) == 0 {
		return snap
	}

	minDay, maxDay := en[0].Day, en[0].Day
	txIDs := make(map[string]bool)
	for _, tx := range en {
		if tx.Day.Before(minDay) {
			minDay = tx.Day
		}
		if tx.Day.After(maxDay) {
			maxDay = tx.Day
		}
		txIDs[tx.TransactionID] = true
		snap.ItemsSold += tx.Quantity
		snap.GrossSales += tx.GrossSales
		snap.Discounts += tx.Discount
		snap.TaxCollected += tx.Tax
		snap.TipsCollected += tx.TipAmount
		switch tx.PaymentType {
		case "CARD":
			snap.CardSales += tx.LineTotal
		case "CASH":
			snap.CashSales += tx.LineTotal
		}
	}
	snap.WindowStart = minDay.Format("2006-01-02")
	snap.WindowEnd = maxDay.Format("2006-01-02")
	snap.TransactionCount = len(txIDs)

	for _, rf := range refunds {
		snap.RefundsProcessed += rf.RefundAmount
	}
	for _, po := range payouts {
		snap.ProcessorFees += po.ProcessorFees
		snap.NetCardPayouts += po.NetPayoutAmount
	}
	return snap
}
