package model

type Budget struct {
	ID              int     `gorm:"primaryKey;column:id" json:"id"`
	Project         int     `gorm:"column:project_id" json:"project" binding:"gt=0"`
	Category        string  `gorm:"column:category" json:"category" binding:"notblank"`
	AllocatedAmount float64 `gorm:"column:allocated_amount;type:decimal(15,2)" json:"allocated_amount" binding:"gte=0"`
	SpentAmount     float64 `gorm:"column:spent_amount;type:decimal(15,2)" json:"spent_amount" binding:"gte=0"`
	CommittedAmount float64 `gorm:"column:committed_amount;type:decimal(15,2)" json:"committed_amount" binding:"gte=0"`
	FiscalYear      int     `gorm:"column:fiscal_year" json:"fiscal_year" binding:"gte=2000,lte=2100"`
	Version         int     `gorm:"column:version;not null;default:1" json:"version"`
}

func (Budget) TableName() string {
	return "budgets"
}

// Remaining is allocated minus spent minus committed. It is negative when the
// budget is overspent.
func (b Budget) Remaining() float64 {
	return b.AllocatedAmount - b.SpentAmount - b.CommittedAmount
}

func (b Budget) Overspent() bool {
	return b.Remaining() < 0
}

// BudgetTotals aggregates a set of budgets.
type BudgetTotals struct {
	Allocated float64
	Spent     float64
	Committed float64
}

func (t BudgetTotals) Remaining() float64 {
	return t.Allocated - t.Spent - t.Committed
}

func SumBudgets(budgets []Budget) BudgetTotals {
	var t BudgetTotals
	for _, b := range budgets {
		t.Allocated += b.AllocatedAmount
		t.Spent += b.SpentAmount
		t.Committed += b.CommittedAmount
	}
	return t
}
