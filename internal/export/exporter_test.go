package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgestion/internal/export"
	"microgestion/internal/fec"
	"microgestion/internal/ledger"
	"microgestion/pkg/models"
	"microgestion/pkg/money"
	"microgestion/pkg/services"
)

type fakeProvider struct {
	records *models.Records
	err     error
	calls   int
}

func (f *fakeProvider) LoadRecords(ctx context.Context) (*models.Records, error) {
	f.calls++
	return f.records, f.err
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []services.AuditEntry
	err     error
}

func (f *fakeAudit) RecordAudit(ctx context.Context, e services.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return f.err
}

type fakeSink struct {
	mu     sync.Mutex
	sheets map[string]int
	err    error
}

func (f *fakeSink) WriteLedger(ctx context.Context, entries []models.AccountingEntry, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sheets == nil {
		f.sheets = map[string]int{}
	}
	f.sheets[name] = len(entries)
	return f.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func twoYears() *models.Records {
	return &models.Records{
		Profile: models.UserFiscalProfile{
			RegistrationNumber: "123 456 789 00012",
			ActivityType:       models.ActivityServices,
			Currency:           "EUR",
		},
		Clients: []models.Client{{ID: "c1", Name: "Dupont SARL"}},
		Invoices: []models.Invoice{
			{
				ID: "i1", Number: "FAC-2024-0007", Type: models.DocumentInvoice, ClientID: "c1",
				IssueDate: day(2024, 11, 5),
				Subtotal:  money.MustParse("500"), TaxAmount: money.MustParse("100"), Total: money.MustParse("600"),
				Status: models.InvoiceSent,
			},
			{
				ID: "i2", Number: "FAC-2025-0001", Type: models.DocumentInvoice, ClientID: "c1",
				IssueDate: day(2025, 2, 1), UpdatedAt: day(2025, 2, 20),
				Subtotal:  money.MustParse("1000"), TaxAmount: money.MustParse("200"), Total: money.MustParse("1200"),
				Status: models.InvoicePaid,
			},
		},
	}
}

func TestExportYear(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{records: twoYears()}
	audit := &fakeAudit{}
	sink := &fakeSink{}

	ex := export.NewExporter(provider, dir, export.WithAudit(audit), export.WithSink(sink))
	res, err := ex.Export(context.Background(), export.Year(2025))
	require.NoError(t, err)

	assert.Equal(t, "123456789FEC20251231.txt", res.Filename)
	assert.Equal(t, filepath.Join(dir, res.Filename), res.Path)
	assert.Equal(t, 5, res.Entries)
	assert.True(t, res.Debit.Equal(res.Credit))
	assert.Equal(t, "2400.00", res.Debit.String())

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	want := fec.Serialize(ledger.FilterPeriod(ledger.Generate(twoYears()), day(2025, 1, 1), day(2025, 12, 31)))
	assert.Equal(t, want, string(data))
	assert.NotContains(t, string(data), "FAC-2024-0007")

	require.Len(t, audit.entries, 1)
	assert.Equal(t, services.AuditActionFECExport, audit.entries[0].Action)
	assert.Contains(t, audit.entries[0].Details, "123456789FEC20251231.txt")
	assert.Equal(t, 5, sink.sheets["123456789FEC20251231"])
}

func TestExportUnboundedUsesClock(t *testing.T) {
	dir := t.TempDir()
	ex := export.NewExporter(&fakeProvider{records: twoYears()}, dir,
		export.WithClock(func() time.Time { return time.Date(2026, 3, 15, 17, 30, 0, 0, time.UTC) }))

	res, err := ex.Export(context.Background(), export.Period{})
	require.NoError(t, err)
	assert.Equal(t, "123456789FEC20260315.txt", res.Filename)
	assert.Equal(t, 8, res.Entries)

	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Equal(t, []string{res.Path}, matches)
}

func TestExportEmptyPeriodWritesHeaderOnly(t *testing.T) {
	ex := export.NewExporter(&fakeProvider{records: twoYears()}, t.TempDir())

	res, err := ex.Export(context.Background(), export.Year(2019))
	require.NoError(t, err)
	assert.Zero(t, res.Entries)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(fec.Header, "\t"), string(data))
}

func TestExportSideEffectFailuresAreIgnored(t *testing.T) {
	audit := &fakeAudit{err: errors.New("disk full")}
	sink := &fakeSink{err: errors.New("quota exceeded")}
	ex := export.NewExporter(&fakeProvider{records: twoYears()}, t.TempDir(),
		export.WithAudit(audit), export.WithSink(sink))

	res, err := ex.Export(context.Background(), export.Year(2024))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Entries)
	assert.Len(t, audit.entries, 1)
}

func TestExportLoadErrors(t *testing.T) {
	boom := errors.New("database locked")
	ex := export.NewExporter(&fakeProvider{err: boom}, t.TempDir())

	_, err := ex.Export(context.Background(), export.Year(2025))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var exportErr *export.ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "load", exportErr.Op)
	assert.Contains(t, err.Error(), "2025-01-01..2025-12-31")

	_, err = export.NewExporter(&fakeProvider{}, t.TempDir()).Export(context.Background(), export.Year(2025))
	assert.ErrorIs(t, err, export.ErrNoRecords)
}

func TestExportRejectsInvertedPeriod(t *testing.T) {
	provider := &fakeProvider{records: twoYears()}
	ex := export.NewExporter(provider, t.TempDir())

	_, err := ex.Export(context.Background(), export.Period{From: day(2025, 6, 1), To: day(2025, 1, 1)})
	assert.ErrorIs(t, err, export.ErrInvalidPeriod)
	assert.Zero(t, provider.calls)
}

func TestExportWriteError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	ex := export.NewExporter(&fakeProvider{records: twoYears()}, filepath.Join(blocker, "out"))
	_, err := ex.Export(context.Background(), export.Year(2025))

	var exportErr *export.ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "write", exportErr.Op)
}

func TestExportYearsKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{records: twoYears()}
	audit := &fakeAudit{}
	ex := export.NewExporter(provider, dir, export.WithAudit(audit))

	years := []int{2025, 2023, 2024}
	results, err := ex.ExportYears(context.Background(), years, 8)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1, provider.calls)
	for i, y := range years {
		assert.Equal(t, y, results[i].Year)
		require.NoError(t, results[i].Err)
	}
	assert.Equal(t, 5, results[0].Result.Entries)
	assert.Equal(t, 0, results[1].Result.Entries)
	assert.Equal(t, 3, results[2].Result.Entries)
	assert.Equal(t, "123456789FEC20231231.txt", results[1].Result.Filename)
	assert.Len(t, audit.entries, 3)
}

func TestExportYearsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := export.NewExporter(&fakeProvider{records: twoYears()}, t.TempDir())
	results, err := ex.ExportYears(ctx, []int{2024, 2025}, 2)
	require.NoError(t, err)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestPeriodString(t *testing.T) {
	assert.Equal(t, "all dates", export.Period{}.String())
	assert.Equal(t, "2025-01-01..2025-12-31", export.Year(2025).String())
	assert.Equal(t, "2025-03-01..…", export.Period{From: day(2025, 3, 1)}.String())
}
