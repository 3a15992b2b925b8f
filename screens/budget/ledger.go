// Package budget keeps the budget ledger view and applies expenses to it.
package budget

import (
	"context"
	"errors"
	"fmt"

	v1 "sitelink.com/sitelink/api/v1"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/utils"
)

// MaxAttempts bounds how often an expense is retried against a concurrent
// writer.
const MaxAttempts = 3

var (
	ErrInvalidAmount    = errors.New("expense amount must be greater than zero")
	ErrConcurrentUpdate = errors.New("budget was changed by someone else, please reload and try again")
)

type API interface {
	GetAll(ctx context.Context) ([]model.Budget, error)
	GetByID(ctx context.Context, id int) (*model.Budget, error)
	UpdateVersioned(ctx context.Context, id int, partial any, version int) (*model.Budget, error)
}

type spentUpdate struct {
	SpentAmount float64 `json:"spent_amount"`
}

type Ledger struct {
	api     API
	logger  *utils.Logger
	budgets []model.Budget
}

func NewLedger(api API, logger *utils.Logger) *Ledger {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	return &Ledger{api: api, logger: logger}
}

func (l *Ledger) Load(ctx context.Context) error {
	budgets, err := l.api.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	l.budgets = budgets
	return nil
}

func (l *Ledger) Budgets() []model.Budget {
	return append([]model.Budget(nil), l.budgets...)
}

// AddExpense adds amount to the budget's spent total. The new total is sent
// with the version it was computed from; when another writer got there first
// the budget is refetched and the expense reapplied.
func (l *Ledger) AddExpense(ctx context.Context, budgetID int, amount float64) (*model.Budget, error) {
	if amount <= 0 {
		return nil, screens.Local(ErrInvalidAmount)
	}

	current, err := l.current(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		total := utils.Round2(current.SpentAmount + amount)
		updated, err := l.api.UpdateVersioned(ctx, budgetID, spentUpdate{SpentAmount: total}, current.Version)
		if err == nil {
			if ctx.Err() != nil {
				return updated, ctx.Err()
			}
			l.logger.Infof("budget %d spent %.2f -> %.2f (version %d)", budgetID, current.SpentAmount, total, updated.Version)
			l.replace(*updated)
			return updated, nil
		}

		apiErr, ok := v1.AsAPIError(err)
		if !ok || !apiErr.IsPreconditionFailed() {
			return nil, fmt.Errorf("update budget %d: %w", budgetID, err)
		}
		l.logger.Warnf("budget %d version %d is stale (attempt %d of %d)", budgetID, current.Version, attempt, MaxAttempts)

		if current, err = l.api.GetByID(ctx, budgetID); err != nil {
			return nil, fmt.Errorf("refetch budget %d: %w", budgetID, err)
		}
		l.replace(*current)
	}
	return nil, screens.Local(ErrConcurrentUpdate)
}

// Totals sums the loaded budgets.
func (l *Ledger) Totals() model.BudgetTotals {
	return model.SumBudgets(l.budgets)
}

// Overspent lists budgets whose remaining amount is negative.
func (l *Ledger) Overspent() []model.Budget {
	return utils.Filter(l.budgets, model.Budget.Overspent)
}

func (l *Ledger) current(ctx context.Context, id int) (*model.Budget, error) {
	if b := utils.Find(l.budgets, func(b model.Budget) bool { return b.ID == id }); b != nil {
		c := *b
		return &c, nil
	}
	b, err := l.api.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get budget %d: %w", id, err)
	}
	return b, nil
}

func (l *Ledger) replace(b model.Budget) {
	if existing := utils.Find(l.budgets, func(x model.Budget) bool { return x.ID == b.ID }); existing != nil {
		*existing = b
		return
	}
	l.budgets = append(l.budgets, b)
}
