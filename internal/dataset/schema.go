package dataset

// Kind identifies one of the four input table kinds.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindRefunds      Kind = "refunds"
	KindPayouts      Kind = "payouts"
	KindProducts     Kind = "products"
)

// Kinds lists all table kinds in upload order.
var Kinds = []Kind{KindTransactions, KindRefunds, KindPayouts, KindProducts}

// RequiredColumns is the case-sensitive column contract per table kind.
// Extra columns are tolerated; missing ones fail validation.
var RequiredColumns = map[Kind][]string{
	KindTransactions: {
		"date", "transaction_id", "product_id", "product_name", "category",
		"quantity", "unit_price", "gross_sales", "discount", "net_sales",
		"tax", "line_total", "payment_type", "tip_amount",
	},
	KindRefunds: {
		"original_transaction_id", "refund_date", "refund_amount",
	},
	KindPayouts: {
		"covering_sales_date", "gross_card_volume", "processor_fees",
		"net_payout_amount", "payout_date",
	},
	KindProducts: {
		"product_id", "product_name", "category", "cogs",
	},
}

// FileNames maps each kind to its persisted CSV file name in the data directory.
var FileNames = map[Kind]string{
	KindTransactions: "pos_transactions_week.csv",
	KindRefunds:      "pos_refunds_week.csv",
	KindPayouts:      "pos_payouts_week.csv",
	KindProducts:     "product_master.csv",
}
