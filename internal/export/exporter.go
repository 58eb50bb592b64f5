// Package export produces FEC files from the stored records. An export
// recomputes the ledger, keeps the entries of the requested period and writes
// the file under its statutory name. Audit logging and the spreadsheet copy
// are side effects whose failures never fail the export.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"microgestion/internal/chart"
	"microgestion/internal/fec"
	"microgestion/internal/ledger"
	"microgestion/internal/logger"
	"microgestion/pkg/models"
	"microgestion/pkg/money"
	"microgestion/pkg/services"
)

// Period bounds an export. Both bounds are inclusive calendar dates; a zero
// bound is open.
type Period struct {
	From time.Time
	To   time.Time
}

// Year returns the calendar year y as a period.
func Year(y int) Period {
	return Period{
		From: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// IsOpen reports whether the period has no end date.
func (p Period) IsOpen() bool {
	return p.To.IsZero()
}

func (p Period) String() string {
	bound := func(t time.Time) string {
		if t.IsZero() {
			return "…"
		}
		return t.Format("2006-01-02")
	}
	if p.From.IsZero() && p.To.IsZero() {
		return "all dates"
	}
	return bound(p.From) + ".." + bound(p.To)
}

// Result describes a written FEC file.
type Result struct {
	Period   Period
	Filename string
	Path     string
	Entries  int
	Debit    money.Amount
	Credit   money.Amount
}

// YearResult is the outcome of one year in ExportYears.
type YearResult struct {
	Year   int
	Result *Result
	Err    error
}

// Exporter writes FEC files into a directory.
type Exporter struct {
	provider   services.RecordProvider
	generator  *ledger.Generator
	serializer *fec.Serializer
	audit      services.AuditLogger
	sink       services.LedgerSink
	outputDir  string
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithChart makes the exporter post and label with c instead of the default chart.
func WithChart(c *chart.Chart) Option {
	return func(e *Exporter) {
		e.generator = ledger.NewGenerator(c)
		e.serializer = fec.NewSerializer(c)
	}
}

// WithAudit records every successful export in the audit log.
func WithAudit(a services.AuditLogger) Option {
	return func(e *Exporter) { e.audit = a }
}

// WithSink copies every exported ledger to sink.
func WithSink(s services.LedgerSink) Option {
	return func(e *Exporter) { e.sink = s }
}

// WithClock overrides the clock used to date unbounded exports.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// NewExporter creates an exporter reading from provider and writing into outputDir.
func NewExporter(provider services.RecordProvider, outputDir string, opts ...Option) *Exporter {
	e := &Exporter{
		provider:   provider,
		generator:  ledger.NewGenerator(nil),
		serializer: fec.NewSerializer(nil),
		outputDir:  outputDir,
		now:        time.Now,
		log:        logger.WithComponent("export"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes the FEC file for period p.
func (e *Exporter) Export(ctx context.Context, p Period) (*Result, error) {
	if err := validatePeriod(p); err != nil {
		return nil, err
	}

	records, entries, err := e.load(ctx, p)
	if err != nil {
		return nil, err
	}
	return e.write(ctx, records, entries, p)
}

// ExportYears writes one FEC file per year using a pool of workers. The ledger
// is computed once; results are returned in the order of years.
func (e *Exporter) ExportYears(ctx context.Context, years []int, workers int) ([]YearResult, error) {
	if len(years) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(years) {
		workers = len(years)
	}

	records, entries, err := e.load(ctx, Period{})
	if err != nil {
		return nil, err
	}

	type job struct {
		year  int
		index int
	}

	jobs := make(chan job, len(years))
	results := make([]YearResult, len(years))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for j := range jobs {
				e.log.Debug().
					Int("worker", workerID).
					Int("year", j.year).
					Msg("Worker exporting year")

				res := YearResult{Year: j.year}
				if err := ctx.Err(); err != nil {
					res.Err = newExportError("write", Year(j.year), err)
				} else {
					res.Result, res.Err = e.write(ctx, records, entries, Year(j.year))
				}
				results[j.index] = res
			}
		}(w)
	}

	for i, y := range years {
		jobs <- job{year: y, index: i}
	}
	close(jobs)

	wg.Wait()

	return results, nil
}

func validatePeriod(p Period) error {
	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		return newExportError("validate", p, ErrInvalidPeriod)
	}
	return nil
}

// load fetches the records and computes the full ledger.
func (e *Exporter) load(ctx context.Context, p Period) (*models.Records, []models.AccountingEntry, error) {
	records, err := e.provider.LoadRecords(ctx)
	if err != nil {
		return nil, nil, newExportError("load", p, err)
	}
	if records == nil {
		return nil, nil, newExportError("load", p, ErrNoRecords)
	}

	entries := e.generator.Generate(records)
	e.log.Debug().
		Int("invoices", len(records.Invoices)).
		Int("expenses", len(records.Expenses)).
		Int("entries", len(entries)).
		Msg("Ledger computed")

	return records, entries, nil
}

// write filters entries to p and writes the file, then runs the side effects.
func (e *Exporter) write(ctx context.Context, records *models.Records, all []models.AccountingEntry, p Period) (*Result, error) {
	entries := ledger.FilterPeriod(all, p.From, p.To)

	closing := p.To
	if p.IsOpen() {
		closing = e.now()
	}
	name := fec.Filename(records.Profile.RegistrationNumber, closing)

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return nil, newExportError("write", p, fmt.Errorf("failed to create output directory: %w", err))
	}

	path := filepath.Join(e.outputDir, name)
	if err := e.writeFile(path, entries); err != nil {
		return nil, newExportError("write", p, err)
	}

	debit, credit := ledger.Totals(entries)
	result := &Result{
		Period:   p,
		Filename: name,
		Path:     path,
		Entries:  len(entries),
		Debit:    debit,
		Credit:   credit,
	}

	e.log.Info().
		Str("file", path).
		Str("period", p.String()).
		Int("entries", len(entries)).
		Str("debit", debit.String()).
		Str("credit", credit.String()).
		Msg("FEC file written")

	e.recordAudit(ctx, result)
	e.copyToSink(ctx, entries, name)

	return result, nil
}

// writeFile writes through a temporary file renamed into place.
func (e *Exporter) writeFile(path string, entries []models.AccountingEntry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fec-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := e.serializer.Write(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to serialize entries: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

func (e *Exporter) recordAudit(ctx context.Context, r *Result) {
	if e.audit == nil {
		return
	}
	err := e.audit.RecordAudit(ctx, services.AuditEntry{
		Action:  services.AuditActionFECExport,
		Details: fmt.Sprintf("%s (%d entries, %s)", r.Filename, r.Entries, r.Period),
	})
	if err != nil {
		e.log.Warn().Err(err).Str("file", r.Filename).Msg("Failed to record audit entry")
	}
}

func (e *Exporter) copyToSink(ctx context.Context, entries []models.AccountingEntry, filename string) {
	if e.sink == nil {
		return
	}
	sheet := strings.TrimSuffix(filename, filepath.Ext(filename))
	if err := e.sink.WriteLedger(ctx, entries, sheet); err != nil {
		e.log.Warn().Err(err).Str("sheet", sheet).Msg("Failed to copy ledger to sink")
	}
}
