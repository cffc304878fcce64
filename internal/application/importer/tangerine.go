package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Tangerine CSV parsing errors.
var (
	ErrEmptyStatement = errors.New("statement file is empty")
	ErrMissingHeader  = errors.New("statement file has no header row")
)

// csvDateLayouts are tried in order for the date column.
var csvDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2006/01/02",
}

// ParseTangerineCSV parses a Tangerine CSV export. The export carries a
// header row naming at least Date, Description and Amount; Category and
// Memo columns are picked up when present.
func ParseTangerineCSV(data []byte, bankName string) (*Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyStatement
	}
	if bankName == "" {
		bankName = "TANGERINE"
	}

	// Strip a UTF-8 BOM; Tangerine exports often carry one.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, ErrMissingHeader
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	for _, required := range []string{"date", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("statement header is missing the %s column", required)
		}
	}
	if _, ok := cols["description"]; !ok {
		// Tangerine exports label the payee column Name.
		if _, ok := cols["name"]; !ok {
			return nil, fmt.Errorf("statement header is missing the description column")
		}
	}

	result := &Result{}
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.skip(line, err.Error())
			continue
		}
		get := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[idx])
		}

		date, err := parseCSVDate(get("date"))
		if err != nil {
			result.skip(line, err.Error())
			continue
		}
		amount, err := parseAmount(get("amount"))
		if err != nil {
			result.skip(line, "unparseable amount")
			continue
		}
		description := get("description")
		if description == "" {
			description = get("name")
		}
		category := get("category")
		if category == "" {
			category = get("memo")
		}

		result.appendCandidate(line, Candidate{
			Date:         date,
			Description:  description,
			Amount:       amount,
			Currency:     "CAD",
			CategoryName: category,
			BankName:     bankName,
		})
	}
	return result, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "")
}

func parseCSVDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return parseFrenchDate(s)
}
