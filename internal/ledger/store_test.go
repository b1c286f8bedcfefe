package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acertijo-dev/balanza/internal/model"
	"github.com/acertijo-dev/balanza/internal/period"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleRow(sub string, p period.Period) model.Row {
	return model.Row{
		Category:       model.CategoryBalanceSheet,
		Class:          sub[:1],
		ClassName:      "Activo",
		Group:          sub[:2],
		GroupName:      "Disponible",
		Account:        sub[:4],
		AccountName:    "Caja",
		Subaccount:     sub,
		SubaccountName: "Caja general",
		Auxiliary:      model.NotApplicable,
		AuxiliaryName:  model.NotApplicable,
		Branch:         "Principal",
		Counterparty:   model.NotApplicable,
		OpeningBalance: dec("100"),
		Debit:          dec("1000"),
		Credit:         dec("400"),
		PeriodMovement: dec("600"),
		ClosingBalance: dec("700"),
		Period:         p,
	}
}

func TestLoadAbsentArtifact(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "salida", "procesado_final.xlsx"))

	rows, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestRewriteLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "procesado_final.xlsx"))
	p := period.New(2025, time.March)
	want := []model.Row{sampleRow("110505", p), sampleRow("110510", p)}

	require.NoError(t, s.Rewrite(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range want {
		assert.Equal(t, want[i].Subaccount, got[i].Subaccount)
		assert.Equal(t, want[i].ClassName, got[i].ClassName)
		assert.Equal(t, want[i].AuxiliaryName, got[i].AuxiliaryName)
		assert.True(t, want[i].PeriodMovement.Equal(got[i].PeriodMovement), "movement %d", i)
		assert.True(t, want[i].Period.Equal(got[i].Period), "period %d", i)
	}
}

func TestRewriteReplacesExistingRows(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "procesado_final.xlsx"))
	p1 := period.New(2025, time.March)
	p2 := period.New(2025, time.April)

	require.NoError(t, s.Rewrite([]model.Row{sampleRow("110505", p1)}))
	require.NoError(t, s.Rewrite([]model.Row{sampleRow("110510", p2)}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "110510", got[0].Subaccount)
	assert.True(t, p2.Equal(got[0].Period))
}

func TestAppendToExisting(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "procesado_final.xlsx"))
	p1 := period.New(2025, time.March)
	p2 := period.New(2025, time.April)

	require.NoError(t, s.Rewrite([]model.Row{sampleRow("110505", p1)}))
	require.NoError(t, s.Append([]model.Row{sampleRow("110510", p2)}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, p1.Equal(got[0].Period))
	assert.True(t, p2.Equal(got[1].Period))
}

func TestAppendCreatesArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salida", "procesado_final.xlsx")
	s := NewStore(path)
	p := period.New(2025, time.March)

	require.NoError(t, s.Append([]model.Row{sampleRow("110505", p)}))

	_, err := os.Stat(path)
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestRewriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "procesado_final.xlsx"))
	require.NoError(t, s.Rewrite([]model.Row{sampleRow("110505", period.New(2025, time.March))}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "procesado_final.xlsx", entries[0].Name())
}
