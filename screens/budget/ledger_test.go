package budget

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "sitelink.com/sitelink/api/v1"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/utils"
)

// fakeAPI applies updates only when the version matches. interfere runs
// before each update and may simulate another writer.
type fakeAPI struct {
	budgets   map[int]model.Budget
	updates   []map[string]any
	interfere func(b *model.Budget)
}

func (f *fakeAPI) GetAll(context.Context) ([]model.Budget, error) {
	var out []model.Budget
	for _, b := range f.budgets {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeAPI) GetByID(_ context.Context, id int) (*model.Budget, error) {
	b, ok := f.budgets[id]
	if !ok {
		return nil, &v1.APIError{StatusCode: 404, Body: []byte(`{"detail":"Not found."}`)}
	}
	return &b, nil
}

func (f *fakeAPI) UpdateVersioned(_ context.Context, id int, partial any, version int) (*model.Budget, error) {
	data, _ := json.Marshal(partial)
	var sent map[string]any
	_ = json.Unmarshal(data, &sent)
	f.updates = append(f.updates, sent)

	b := f.budgets[id]
	if f.interfere != nil {
		f.interfere(&b)
		f.budgets[id] = b
	}
	if b.Version != version {
		return nil, &v1.APIError{StatusCode: 412, Body: []byte(`{"detail":"Budget has been modified."}`)}
	}
	b.SpentAmount = sent["spent_amount"].(float64)
	b.Version++
	f.budgets[id] = b
	return &b, nil
}

func newLedger(api *fakeAPI) *Ledger {
	return NewLedger(api, utils.NewLogger(io.Discard, false))
}

func TestAddExpenseSubmitsNewTotal(t *testing.T) {
	api := &fakeAPI{budgets: map[int]model.Budget{
		1: {ID: 1, AllocatedAmount: 500000, SpentAmount: 100000, Version: 4},
	}}
	l := newLedger(api)
	require.NoError(t, l.Load(context.Background()))

	updated, err := l.AddExpense(context.Background(), 1, 50000)
	require.NoError(t, err)
	require.Len(t, api.updates, 1)
	assert.Equal(t, map[string]any{"spent_amount": 150000.0}, api.updates[0])
	assert.Equal(t, 150000.0, updated.SpentAmount)
	assert.Equal(t, 5, updated.Version)
	assert.Equal(t, 350000.0, l.Budgets()[0].Remaining())
}

func TestAddExpenseRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []float64{0, -10} {
		api := &fakeAPI{budgets: map[int]model.Budget{1: {ID: 1, Version: 1}}}
		_, err := newLedger(api).AddExpense(context.Background(), 1, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Empty(t, api.updates)
		assert.Equal(t, screens.AlertError, screens.AlertFor(err).Kind)
	}
}

func TestAddExpenseRetriesOnStaleVersion(t *testing.T) {
	api := &fakeAPI{budgets: map[int]model.Budget{
		1: {ID: 1, AllocatedAmount: 1000, SpentAmount: 100, Version: 1},
	}}
	l := newLedger(api)
	require.NoError(t, l.Load(context.Background()))

	// Another device records 200 before our first write lands.
	once := false
	api.interfere = func(b *model.Budget) {
		if !once {
			once = true
			b.SpentAmount += 200
			b.Version++
		}
	}

	updated, err := l.AddExpense(context.Background(), 1, 50)
	require.NoError(t, err)
	require.Len(t, api.updates, 2)
	assert.Equal(t, 150.0, api.updates[0]["spent_amount"])
	assert.Equal(t, 350.0, api.updates[1]["spent_amount"])
	assert.Equal(t, 350.0, updated.SpentAmount)
}

func TestAddExpenseGivesUpAfterMaxAttempts(t *testing.T) {
	api := &fakeAPI{budgets: map[int]model.Budget{1: {ID: 1, SpentAmount: 10, Version: 1}}}
	api.interfere = func(b *model.Budget) { b.Version++ }
	l := newLedger(api)

	_, err := l.AddExpense(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Len(t, api.updates, MaxAttempts)
}

func TestAddExpenseOtherFailuresAreNotRetried(t *testing.T) {
	api := &fakeAPI{budgets: map[int]model.Budget{}}
	_, err := newLedger(api).AddExpense(context.Background(), 9, 5)
	require.Error(t, err)
	apiErr, ok := v1.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Empty(t, api.updates)
}

func TestTotalsAndOverspent(t *testing.T) {
	api := &fakeAPI{budgets: map[int]model.Budget{
		1: {ID: 1, AllocatedAmount: 100, SpentAmount: 40, CommittedAmount: 10},
		2: {ID: 2, AllocatedAmount: 50, SpentAmount: 70},
	}}
	l := newLedger(api)
	require.NoError(t, l.Load(context.Background()))

	totals := l.Totals()
	assert.Equal(t, 150.0, totals.Allocated)
	assert.Equal(t, 30.0, totals.Remaining())

	over := l.Overspent()
	require.Len(t, over, 1)
	assert.Equal(t, 2, over[0].ID)
	assert.Equal(t, -20.0, over[0].Remaining())
}
