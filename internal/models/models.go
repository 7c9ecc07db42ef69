package models

import "time"

// Transaction represents a single POS transaction line.
type Transaction struct {
	Date          string  `json:"date"`
	TransactionID string  `json:"transaction_id"`
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Category      string  `json:"category"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	GrossSales    float64 `json:"gross_sales"`
	Discount      float64 `json:"discount"`
	NetSales      float64 `json:"net_sales"`
	Tax           float64 `json:"tax"`
	LineTotal     float64 `json:"line_total"`
	PaymentType   string  `json:"payment_type"`
	TipAmount     float64 `json:"tip_amount"`
}

// Refund represents a processed refund against an earlier transaction.
type Refund struct {
	OriginalTransactionID string  `json:"original_transaction_id"`
	RefundDate            string  `json:"refund_date"`
	RefundAmount          float64 `json:"refund_amount"`
}

// Payout represents a card processor payout covering one sales date.
type Payout struct {
	CoveringSalesDate string  `json:"covering_sales_date"`
	GrossCardVolume   float64 `json:"gross_card_volume"`
	ProcessorFees     float64 `json:"processor_fees"`
	NetPayoutAmount   float64 `json:"net_payout_amount"`
	PayoutDate        string  `json:"payout_date"`
}

// Product represents a product-master row (the COGS lookup dimension).
type Product struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	COGS        float64 `json:"cogs"`
}

// EnrichedTransaction is a transaction joined against the product master,
// with derived margin fields. CostKnown is false when no product matched;
// UnitMargin and GrossProfit are meaningless in that case and must be
// excluded from profit aggregations.
type EnrichedTransaction struct {
	Transaction
	Day         time.Time `json:"day"`
	COGS        float64   `json:"cogs"`
	UnitMargin  float64   `json:"unit_margin"`
	GrossProfit float64   `json:"gross_profit"`
	CostKnown   bool      `json:"cost_known"`
}

// Dataset holds the four currently loaded tables.
type Dataset struct {
	Transactions []Transaction
	Refunds      []Refund
	Payouts      []Payout
	Products     []Product
}

// CashEaterCategory is one ranked cash-drain category.
type CashEaterCategory struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ProductMargin summarises revenue and margin for one product.
type ProductMargin struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Revenue     float64 `json:"revenue"`
	GrossProfit float64 `json:"gross_profit"`
	MarginPct   float64 `json:"margin_pct"`
}

// CashEatersResult is the output of the cash-eaters analysis.
type CashEatersResult struct {
	Categories        []CashEaterCategory `json:"categories"`
	LowMarginProducts []ProductMargin     `json:"low_margin_products"`
}

// ReorderLine is a single suggested purchase in a reorder plan.
type ReorderLine struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	UnitCOGS        float64 `json:"unit_cogs"`
	SuggestedQty    int     `json:"suggested_qty"`
	BudgetSpend     float64 `json:"budget_spend"`
	EstGPUpliftWeek float64 `json:"est_gp_uplift_week"`
}

// ReorderPlan is the output of the budget-constrained reorder planner.
type ReorderPlan struct {
	Budget          float64       `json:"budget"`
	RemainingBudget float64       `json:"remaining_budget"`
	Lines           []ReorderLine `json:"lines"`
}

// ClearanceLine is one slow-moving product with its projected clearance lift.
type ClearanceLine struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	QtyPerDay       float64 `json:"qty_per_day"`
	MedianPrice     float64 `json:"median_price"`
	DiscountedPrice float64 `json:"discounted_price"`
	ExtraUnits      float64 `json:"extra_units"`
	ExtraCashInflow float64 `json:"extra_cash_inflow"`
}

// ClearanceEstimate is the output of the slow-mover clearance projection.
type ClearanceEstimate struct {
	Lines          []ClearanceLine `json:"lines"`
	TotalExtraCash float64         `json:"total_extra_cash"`
}

// Snapshot is the executive overview of the loaded trading window.
type Snapshot struct {
	WindowStart      string  `json:"window_start"`
	WindowEnd        string  `json:"window_end"`
	TransactionCount int     `json:"transaction_count"`
	ItemsSold        float64 `json:"items_sold"`
	GrossSales       float64 `json:"gross_sales"`
	Discounts        float64 `json:"discounts"`
	TaxCollected     float64 `json:"tax_collected"`
	TipsCollected    float64 `json:"tips_collected"`
	CardSales        float64 `json:"card_sales"`
	CashSales        float64 `json:"cash_sales"`
	ProcessorFees    float64 `json:"processor_fees"`
	RefundsProcessed float64 `json:"refunds_processed"`
	NetCardPayouts   float64 `json:"net_card_payouts"`
}

// TableStatus reports whether one table kind is loaded and how many rows it has.
type TableStatus struct {
	Loaded bool `json:"loaded"`
	Rows   int  `json:"rows"`
}

// DatasetStatus reports the load state of all four tables.
type DatasetStatus struct {
	Transactions TableStatus `json:"transactions"`
	Refunds      TableStatus `json:"refunds"`
	Payouts      TableStatus `json:"payouts"`
	Products     TableStatus `json:"products"`
}
