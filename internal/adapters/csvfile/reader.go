package csvfile

// reader.go: lazy loaders for the league exports.
//
// Each Read* call returns a single-pass sequence: the file is opened when the
// range loop starts and closed when it ends, whether the loop finishes, breaks
// or hits an error. Ranging again re-opens and re-reads the file.
//
// A malformed row yields a *domain.SchemaValidationError and no record. The
// sequence keeps going if the caller keeps ranging, so the caller decides
// whether to abort or skip (see Collect). Missing files, unreadable CSV and a
// wrong header end the sequence.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/alejandrodnm/leaguemarket/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

var errFieldCount = errors.New("wrong number of fields")

// ReadCurrencyRows streams validated rows of a currency export.
func ReadCurrencyRows(path string) iter.Seq2[domain.CurrencyRow, error] {
	return readRows(path, CurrencySchema, parseCurrencyRow)
}

// ReadItemRows streams validated rows of an items export.
func ReadItemRows(path string) iter.Seq2[domain.ItemRow, error] {
	return readRows(path, ItemSchema, parseItemRow)
}

func readRows[T any](path string, schema Schema, parse func(p *rowParser) T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		f, err := os.Open(path)
		if err != nil {
			yield(zero, fmt.Errorf("csvfile.Read %s: %w", schema.Name, err))
			return
		}
		defer f.Close()

		r := csv.NewReader(f)
		r.Comma = Delimiter
		r.FieldsPerRecord = -1 // row width is checked against the schema below

		header, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.New("missing header")
			}
			yield(zero, fmt.Errorf("csvfile.Read %s %q: %w", schema.Name, path, err))
			return
		}
		width, err := schema.width(header)
		if err != nil {
			yield(zero, fmt.Errorf("csvfile.Read %q: %w", path, err))
			return
		}

		for row := 1; ; row++ {
			rec, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(zero, fmt.Errorf("csvfile.Read %s %q: %w", schema.Name, path, err))
				return
			}

			if len(rec) != width {
				verr := &domain.SchemaValidationError{
					Schema: schema.Name,
					Row:    row,
					Err:    fmt.Errorf("%w: got %d, want %d", errFieldCount, len(rec), width),
				}
				if !yield(zero, verr) {
					return
				}
				continue
			}

			p := &rowParser{schema: schema, row: row, rec: rec}
			v := parse(p)
			if p.err != nil {
				if !yield(zero, p.err) {
					return
				}
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Policy decides what Collect does with rows that fail validation.
type Policy int

const (
	// Abort stops at the first invalid row.
	Abort Policy = iota
	// Skip logs invalid rows and keeps loading.
	Skip
)

// Collect materialises a sequence. Under Skip only validation errors are
// skipped; I/O and header errors always abort. It returns the rows and how
// many were skipped.
func Collect[T any](seq iter.Seq2[T, error], policy Policy) ([]T, int, error) {
	var (
		rows    []T
		skipped int
	)
	// First few skips are logged in full, then one in every hundred.
	sampled := rate.Sometimes{First: 5, Every: 100}

	for v, err := range seq {
		if err != nil {
			if policy == Skip && domain.IsValidation(err) {
				skipped++
				sampled.Do(func() {
					slog.Warn("skipping invalid row", "err", err, "skipped", skipped)
				})
				continue
			}
			return nil, skipped, err
		}
		rows = append(rows, v)
	}
	return rows, skipped, nil
}

// --- row coercion ---

// rowParser coerces the fields of one record and keeps the first failure.
type rowParser struct {
	schema Schema
	row    int
	rec    []string
	err    error
}

func (p *rowParser) fail(column, value string, err error) {
	if p.err != nil {
		return
	}
	p.err = &domain.SchemaValidationError{
		Schema: p.schema.Name,
		Row:    p.row,
		Column: column,
		Value:  value,
		Err:    err,
	}
}

func (p *rowParser) raw(column string) (string, bool) {
	i := p.schema.index(column)
	if i < 0 || i >= len(p.rec) {
		return "", false
	}
	return p.rec[i], true
}

func (p *rowParser) text(column string) string {
	v, _ := p.raw(column)
	return v
}

func (p *rowParser) required(column string) string {
	v := p.text(column)
	if v == "" {
		p.fail(column, v, errors.New("value is required"))
	}
	return v
}

func (p *rowParser) date(column string) time.Time {
	v := p.text(column)
	d, err := domain.ParseDate(v)
	if err != nil {
		p.fail(column, v, errors.New("not a YYYY-MM-DD date"))
	}
	return d
}

func (p *rowParser) price(column string) decimal.Decimal {
	v := p.text(column)
	d, err := decimal.NewFromString(v)
	if err != nil {
		p.fail(column, v, errors.New("not a decimal number"))
		return decimal.Zero
	}
	if d.IsNegative() {
		p.fail(column, v, domain.ErrNegativePrice)
	}
	return d
}

func (p *rowParser) integer(column string) int64 {
	v := p.text(column)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(column, v, errors.New("not an integer"))
	}
	return n
}

func (p *rowParser) confidence(column string) domain.Confidence {
	v := p.text(column)
	c, err := domain.ParseConfidence(v)
	if err != nil {
		p.fail(column, v, err)
	}
	return c
}

func (p *rowParser) links(column string) domain.Links {
	v := p.text(column)
	l, err := domain.ParseLinks(v)
	if err != nil {
		p.fail(column, v, err)
	}
	return l
}

// quantity reads the optional listing count. An absent column or empty cell means unknown.
func (p *rowParser) quantity(column string) (int, bool) {
	v, ok := p.raw(column)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.fail(column, v, errors.New("not a non-negative integer"))
		return 0, false
	}
	return n, true
}

func parseCurrencyRow(p *rowParser) domain.CurrencyRow {
	return domain.CurrencyRow{
		League:     p.text("League"),
		Date:       p.date("Date"),
		Get:        p.required("Get"),
		Pay:        p.required("Pay"),
		Value:      p.price("Value"),
		Confidence: p.confidence("Confidence"),
	}
}

func parseItemRow(p *rowParser) domain.ItemRow {
	row := domain.ItemRow{
		League:     p.text("League"),
		Date:       p.date("Date"),
		ID:         p.integer("Id"),
		Type:       p.required("Type"),
		Name:       p.required("Name"),
		BaseType:   p.text("BaseType"),
		Variant:    p.text("Variant"),
		Links:      p.links("Links"),
		Value:      p.price("Value"),
		Confidence: p.confidence("Confidence"),
	}
	row.Quantity, row.HasQuantity = p.quantity("Quantity")
	return row
}
