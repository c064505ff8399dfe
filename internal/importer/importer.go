package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"customer-manager/internal/domain"
	customersvc "customer-manager/internal/service/customer"
	"github.com/rs/zerolog"
)

// CustomerCreator stores one validated customer.
type CustomerCreator interface {
	Create(ctx context.Context, in customersvc.Input) (*domain.Customer, error)
}

// Result counts what an import run did.
type Result struct {
	Imported int
	Skipped  int
}

// CSVImporter reads customer CSV files. The header row names the columns
// (name, surname, email, initials, mobile) in any order.
type CSVImporter struct {
	reader  *csv.Reader
	creator CustomerCreator
	logger  zerolog.Logger
}

func NewCSVImporter(r io.Reader, creator CustomerCreator, logger zerolog.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:  csvr,
		creator: creator,
		logger:  logger.With().Str("component", "importer").Logger(),
	}
}

// Run creates one customer per row. Rows rejected by validation, including
// duplicate emails, are logged and skipped; any other failure stops the run.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "surname", "email"} {
		if _, ok := index[required]; !ok {
			return res, fmt.Errorf("missing %q column", required)
		}
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		in := parseRow(record, index)
		if _, err := i.creator.Create(ctx, in); err != nil {
			if domain.KindOf(err) == domain.KindValidation {
				i.logger.Warn().Err(err).Int("line", line).Str("email", in.Email).Msg("skipping customer row")
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("create customer on line %d: %w", line, err)
		}
		res.Imported++
	}

	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) customersvc.Input {
	return customersvc.Input{
		Name:     pick(record, index, "name"),
		Surname:  pick(record, index, "surname"),
		Email:    pick(record, index, "email"),
		Initials: pick(record, index, "initials"),
		Mobile:   pick(record, index, "mobile"),
	}
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
