package analysis

import (
	"testing"

	"cashflow-insight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrichedLine(id string, qty, price, cogs float64) models.EnrichedTransaction {
	return models.EnrichedTransaction{
		Transaction: models.Transaction{
			ProductID:   id,
			ProductName: "Product " + id,
			Quantity:    qty,
			UnitPrice:   price,
		},
		Day:         day(4),
		COGS:        cogs,
		UnitMargin:  price - cogs,
		GrossProfit: qty * (price - cogs),
		CostKnown:   true,
	}
}

func TestPlanReorderGreedyAllocation(t *testing.T) {
	// Single-day window, so per-day rates equal totals:
	//   P1: 10/day at 0.5 profit each, cogs 2
	//   P2:  2/day at 10 profit each,  cogs 10  <- highest profit velocity
	//   P3:  1/day at 1 profit each,   cogs 1
	en := []models.EnrichedTransaction{
		enrichedLine("P1", 10, 2.5, 2),
		enrichedLine("P2", 2, 20, 10),
		enrichedLine("P3", 1, 2, 1),
	}

	plan := PlanReorder(en, 100, 5)

	// P2 alone absorbs the budget: target ceil(2*5)=10 units at cogs 10.
	require.Len(t, plan.Lines, 1)
	line := plan.Lines[0]
	assert.Equal(t, "P2", line.ProductID)
	assert.Equal(t, 10, line.SuggestedQty)
	assert.Equal(t, 100.0, line.BudgetSpend)
	assert.InDelta(t, 100.0, line.EstGPUpliftWeek, 1e-9)
	assert.Equal(t, 0.0, plan.RemainingBudget)
	assert.Equal(t, 100.0, plan.Budget)
}

func TestPlanReorderSpillsToNextProduct(t *testing.T) {
	en := []models.EnrichedTransaction{
		enrichedLine("P1", 10, 2.5, 2),
		enrichedLine("P2", 2, 20, 10),
		enrichedLine("P3", 1, 2, 1),
	}

	plan := PlanReorder(en, 150, 5)

	// After 10 units of P2 (spend 100), 50 remains: P1 wants ceil(10*5)=50
	// units but only floor(50/2)=25 are affordable.
	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "P2", plan.Lines[0].ProductID)
	assert.Equal(t, "P1", plan.Lines[1].ProductID)
	assert.Equal(t, 25, plan.Lines[1].SuggestedQty)
	assert.Equal(t, 50.0, plan.Lines[1].BudgetSpend)
	assert.Equal(t, 0.0, plan.RemainingBudget)
}

func TestPlanReorderBudgetInvariant(t *testing.T) {
	en := []models.EnrichedTransaction{
		enrichedLine("P1", 3, 7.3, 2.7),
		enrichedLine("P2", 5, 4.1, 1.9),
		enrichedLine("P3", 2, 12.0, 6.5),
	}

	for _, budget := range []float64{10, 37.5, 200} {
		plan := PlanReorder(en, budget, 5)

		var spent float64
		for _, line := range plan.Lines {
			assert.Greater(t, line.SuggestedQty, 0)
			spent += line.BudgetSpend
		}
		assert.InDelta(t, budget-spent, plan.RemainingBudget, 1e-9, "budget %v", budget)
		assert.LessOrEqual(t, spent, budget+1e-9, "budget %v", budget)
	}
}

func TestPlanReorderDeterministicOnTies(t *testing.T) {
	// Identical velocity and profit: ranked by product id.
	en := []models.EnrichedTransaction{
		enrichedLine("P2", 2, 6, 2),
		enrichedLine("P1", 2, 6, 2),
	}

	first := PlanReorder(en, 12, 5)
	for i := 0; i < 10; i++ {
		again := PlanReorder(en, 12, 5)
		assert.Equal(t, first, again)
	}
	require.NotEmpty(t, first.Lines)
	assert.Equal(t, "P1", first.Lines[0].ProductID)
}

func TestPlanReorderSkipsUnknownAndFreeCOGS(t *testing.T) {
	unknown := enrichedLine("P1", 10, 5, 0)
	unknown.CostKnown = false

	en := []models.EnrichedTransaction{
		unknown,
		enrichedLine("P2", 1, 3, 0), // zero cogs cannot be priced
		enrichedLine("P3", 2, 5, 2),
	}

	plan := PlanReorder(en, 100, 5)

	require.Len(t, plan.Lines, 1)
	assert.Equal(t, "P3", plan.Lines[0].ProductID)
}

func TestPlanReorderMinimumOneUnitTarget(t *testing.T) {
	// 1 unit over a 7-day window: qty/day well under 1, target still 1.
	en := []models.EnrichedTransaction{
		enrichedLine("P1", 1, 10, 4),
	}
	en[0].Day = day(4)
	en = append(en, enrichedLine("P1", 0, 10, 4))
	en[1].Day = day(10)

	plan := PlanReorder(en, 100, 5)

	require.Len(t, plan.Lines, 1)
	assert.Equal(t, 1, plan.Lines[0].SuggestedQty)
}

func TestPlanReorderEmptyInput(t *testing.T) {
	plan := PlanReorder(nil, 100, 5)
	assert.Empty(t, plan.Lines)
	assert.Equal(t, 100.0, plan.RemainingBudget)
}
