package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"inventory-reconciler/core/exclusion"
	"inventory-reconciler/core/fieldmap"
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/utils"
)

// candidateDelimiters are tried in order when detecting the separator.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

const utf8BOM = "\ufeff"

// Parse reads header-driven delimited text into canonical items.
//
// Fully empty rows are dropped, excluded rows are dropped and counted, and
// every row-level error is collected. When at least one row fails, Parse
// returns the complete Result together with a *inventory.ValidationError.
func Parse(r io.Reader, opts Options) (*Result, error) {
	br := bufio.NewReader(r)

	delim := opts.Delimiter
	if delim == 0 {
		head, err := br.Peek(4096)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		delim = detectDelimiter(head)
	}

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &inventory.ValidationError{Errors: []inventory.RowError{
			{Row: 1, Field: "header", Message: "input is empty"},
		}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	headers = normalizeHeaders(headers)

	if !fieldmap.Has(headers, fieldmap.ItemID) {
		return nil, &inventory.ValidationError{Errors: []inventory.RowError{
			{Row: 1, Field: string(fieldmap.ItemID), Message: "no identifier column found"},
		}}
	}

	p := newParser(opts)
	hasQuantity := fieldmap.Has(headers, fieldmap.Quantity)
	if !hasQuantity {
		p.result.Meta.Warnings = append(p.result.Meta.Warnings, inventory.RowError{
			Row: 1, Field: string(fieldmap.Quantity), Message: "no quantity column found; quantities default to 0",
		})
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			p.result.Meta.TotalRows++
			p.addError(line, "", "row", err.Error())
			continue
		}
		line, _ := reader.FieldPos(0)
		p.addRow(line, toRow(headers, record), hasQuantity)
	}

	return p.finish()
}

// FromPairs builds a Result from (text, quantity) readings. The text is
// taken as the item id; exclusions and defaults apply as for tabular input.
func FromPairs(pairs []Pair, opts Options) (*Result, error) {
	p := newParser(opts)
	for i, pair := range pairs {
		row := fieldmap.Row{
			fieldmap.Header(fieldmap.ItemID):   pair.Text,
			fieldmap.Header(fieldmap.Quantity): fmt.Sprintf("%d", pair.Quantity),
		}
		p.addRow(i+1, row, true)
	}
	return p.finish()
}

type parser struct {
	opts     Options
	matcher  *exclusion.Matcher
	result   *Result
	position map[string]int
}

func newParser(opts Options) *parser {
	return &parser{
		opts:     opts,
		matcher:  exclusion.Compile(opts.Exclusions),
		result:   &Result{Items: []inventory.Item{}},
		position: make(map[string]int),
	}
}

func (p *parser) addRow(line int, row fieldmap.Row, hasQuantity bool) {
	meta := &p.result.Meta
	meta.TotalRows++

	if isEmpty(row) {
		meta.EmptyRows++
		return
	}

	id, hasID := fieldmap.Extract(row, fieldmap.ItemID)
	name, hasName := fieldmap.Extract(row, fieldmap.DisplayName)

	if pattern, excluded := p.matcher.Match(id, name); excluded {
		meta.ExcludedRows++
		meta.Excluded = append(meta.Excluded, ExcludedRow{Row: line, ItemID: id, Pattern: pattern})
		return
	}

	if !hasID {
		p.addError(line, "", string(fieldmap.ItemID), "missing item identifier")
		return
	}

	item := p.buildItem(line, id, row)

	if !hasName {
		p.addWarning(line, id, string(fieldmap.DisplayName), "missing display name")
	}
	if _, ok := fieldmap.Extract(row, fieldmap.Quantity); hasQuantity && !ok {
		p.addWarning(line, id, string(fieldmap.Quantity), "missing quantity; defaulted to 0")
	}

	if idx, dup := p.position[id]; dup {
		p.addWarning(line, id, string(fieldmap.ItemID), fmt.Sprintf("duplicate of row %d; later row wins", p.result.Items[idx].RowNumber))
		p.result.Items[idx] = item
		return
	}
	p.position[id] = len(p.result.Items)
	p.result.Items = append(p.result.Items, item)
}

func (p *parser) buildItem(line int, id string, row fieldmap.Row) inventory.Item {
	now := p.opts.now()
	item := inventory.Item{
		ItemID:         id,
		Quantity:       fieldmap.ExtractInt(row, fieldmap.Quantity),
		LabeledCount:   fieldmap.ExtractInt(row, fieldmap.LabeledCount),
		OrderedQty:     fieldmap.ExtractInt(row, fieldmap.OrderedQty),
		HasActiveOrder: fieldmap.ExtractBool(row, fieldmap.HasActiveOrder),
		Unit:           p.opts.unit(),
		ImportedAt:     now,
		UpdatedAt:      now,
		RowNumber:      line,
	}

	// Absent optional fields stay at their zero value and are never written as nulls
	text := map[fieldmap.Field]*string{
		fieldmap.DisplayName: &item.DisplayName,
		fieldmap.Unit:        &item.Unit,
		fieldmap.BatchNumber: &item.BatchNumber,
		fieldmap.Purity:      &item.Purity,
		fieldmap.NetWeight:   &item.NetWeight,
		fieldmap.Velocity:    &item.Velocity,
		fieldmap.OrderedDate: &item.OrderedDate,
		fieldmap.Notes:       &item.Notes,
	}
	for f, dst := range text {
		if v, ok := fieldmap.Extract(row, f); ok {
			*dst = v
		}
	}

	// Numeric fields never fail a row; placeholders such as "-" or "n/a" read as 0
	for _, f := range fieldmap.Fields {
		if !fieldmap.IsNumeric(f) {
			continue
		}
		if raw, ok := fieldmap.Extract(row, f); ok && !isNumber(utils.StripNumeric(raw)) {
			p.addWarning(line, id, string(f), fmt.Sprintf("%q is not a number; defaulted to 0", raw))
		}
	}

	if item.LabeledCount < 0 {
		p.addWarning(line, id, string(fieldmap.LabeledCount), "negative labeled count; clamped to 0")
		item.LabeledCount = 0
	}

	return item
}

func (p *parser) addError(line int, id, field, msg string) {
	p.result.Meta.Errors = append(p.result.Meta.Errors, inventory.RowError{Row: line, ItemID: id, Field: field, Message: msg})
}

func (p *parser) addWarning(line int, id, field, msg string) {
	p.result.Meta.Warnings = append(p.result.Meta.Warnings, inventory.RowError{Row: line, ItemID: id, Field: field, Message: msg})
}

func (p *parser) finish() (*Result, error) {
	p.result.Meta.ValidRows = len(p.result.Items)
	if len(p.result.Meta.Errors) > 0 {
		return p.result, &inventory.ValidationError{Errors: p.result.Meta.Errors}
	}
	return p.result, nil
}

// detectDelimiter picks the candidate that occurs most often in the first line.
func detectDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if c := bytes.Count(head, []byte(string(d))); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func toRow(headers, record []string) fieldmap.Row {
	row := make(fieldmap.Row, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(record) {
			// The first column with a given header wins
			if _, seen := row[h]; !seen {
				row[h] = record[i]
			}
		}
	}
	return row
}

func isEmpty(row fieldmap.Row) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}
