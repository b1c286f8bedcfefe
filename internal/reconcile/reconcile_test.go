package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acertijo-dev/balanza/internal/model"
	"github.com/acertijo-dev/balanza/internal/period"
)

// fakeConfirmer records calls and answers with a fixed reply.
type fakeConfirmer struct {
	reply bool
	err   error
	calls int
}

func (f *fakeConfirmer) ConfirmReplace(string, period.Period) (bool, error) {
	f.calls++
	return f.reply, f.err
}

func row(sub string, p period.Period) model.Row {
	return model.Row{Subaccount: sub, Period: p}
}

var (
	march = period.New(2025, time.March)
	april = period.New(2025, time.April)
)

func TestReconcileEmptyLedger(t *testing.T) {
	incoming := []model.Row{row("110505", march)}

	res, err := Reconcile(nil, incoming, "marzo.xlsx", Interactive, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCreated, res.Outcome)
	assert.Equal(t, incoming, res.Rows)
}

func TestReconcileEmptyIncoming(t *testing.T) {
	existing := []model.Row{row("110505", march)}

	res, err := Reconcile(existing, nil, "vacio.xlsx", Interactive, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSkippedEmpty, res.Outcome)
	assert.Equal(t, existing, res.Rows)
}

func TestReconcileNewPeriodAppends(t *testing.T) {
	existing := []model.Row{row("110505", march), row("110510", march)}
	incoming := []model.Row{row("110505", april)}

	res, err := Reconcile(existing, incoming, "abril.xlsx", RejectDuplicates, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeAppended, res.Outcome)
	require.Len(t, res.Rows, 3)
	// Existing rows keep their position, incoming rows follow.
	assert.True(t, res.Rows[0].Period.Equal(march))
	assert.True(t, res.Rows[1].Period.Equal(march))
	assert.True(t, res.Rows[2].Period.Equal(april))
}

func TestReconcileDuplicateRejected(t *testing.T) {
	existing := []model.Row{row("110505", march)}
	incoming := []model.Row{row("110510", march)}

	res, err := Reconcile(existing, incoming, "marzo.xlsx", RejectDuplicates, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSkippedDuplicate, res.Outcome)
	assert.Equal(t, existing, res.Rows)
}

func TestReconcileDuplicateReplaced(t *testing.T) {
	existing := []model.Row{row("110505", march), row("220505", april)}
	incoming := []model.Row{row("110510", march), row("110515", march)}

	res, err := Reconcile(existing, incoming, "marzo.xlsx", ReplaceDuplicates, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeReplaced, res.Outcome)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, "220505", res.Rows[0].Subaccount)
	assert.Equal(t, "110510", res.Rows[1].Subaccount)
	assert.Equal(t, "110515", res.Rows[2].Subaccount)
}

func TestReconcileReplaceIsIdempotent(t *testing.T) {
	incoming := []model.Row{row("110505", march), row("110510", march)}

	once, err := Reconcile(nil, incoming, "marzo.xlsx", ReplaceDuplicates, nil)
	require.NoError(t, err)

	twice, err := Reconcile(once.Rows, incoming, "marzo.xlsx", ReplaceDuplicates, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeReplaced, twice.Outcome)
	assert.Equal(t, once.Rows, twice.Rows)
}

func TestReconcileInteractiveDeclined(t *testing.T) {
	existing := []model.Row{row("110505", march)}
	incoming := []model.Row{row("110510", march)}
	c := &fakeConfirmer{reply: false}

	res, err := Reconcile(existing, incoming, "marzo.xlsx", Interactive, c)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeSkippedDeclined, res.Outcome)
	assert.Equal(t, existing, res.Rows)
	assert.Equal(t, 1, c.calls)
}

func TestReconcileInteractiveConfirmed(t *testing.T) {
	existing := []model.Row{row("110505", march)}
	incoming := []model.Row{row("110510", march)}
	c := &fakeConfirmer{reply: true}

	res, err := Reconcile(existing, incoming, "marzo.xlsx", Interactive, c)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeReplaced, res.Outcome)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "110510", res.Rows[0].Subaccount)
}

func TestReconcileInteractiveNotAskedWithoutConflict(t *testing.T) {
	c := &fakeConfirmer{reply: true}

	_, err := Reconcile([]model.Row{row("110505", march)}, []model.Row{row("110505", april)}, "abril.xlsx", Interactive, c)
	require.NoError(t, err)
	assert.Zero(t, c.calls)
}

func TestReconcileConfirmerError(t *testing.T) {
	boom := errors.New("stdin closed")
	c := &fakeConfirmer{err: boom}

	_, err := Reconcile([]model.Row{row("110505", march)}, []model.Row{row("110510", march)}, "marzo.xlsx", Interactive, c)
	assert.ErrorIs(t, err, boom)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{
		"interactive": Interactive,
		"reject":      RejectDuplicates,
		"Replace":     ReplaceDuplicates,
	} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePolicy("merge")
	assert.Error(t, err)
}
