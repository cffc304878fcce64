package importer

import (
	"regexp"
	"strings"
	"time"
)

var yearLine = regexp.MustCompile(`^\d{4}$`)

// ParseTangerineTXT parses the plain-text Tangerine statement export.
// After a four-line preamble, each transaction is a run of lines ending
// at the amount line (the first line carrying a dollar sign):
//
//	12 janv.
//	2024            (optional; current year assumed when absent)
//	<posted date>
//	<description>
//	<category>
//	...
//	-24,99 $
//	1,25 $          (optional cash back)
func ParseTangerineTXT(data []byte, now time.Time) (*Result, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) > 4 {
		lines = lines[4:]
	} else {
		return nil, ErrEmptyStatement
	}

	result := &Result{}
	var chunk []string
	var chunkStart int
	sawAmount := false
	for i, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if len(chunk) == 0 {
			chunkStart = i + 5 // account for the stripped preamble
		}
		if strings.Contains(line, "$") {
			chunk = append(chunk, line)
			sawAmount = true
			continue
		}
		if sawAmount {
			parseTXTChunk(result, chunkStart, chunk, now)
			chunk = chunk[:0]
			sawAmount = false
			chunkStart = i + 5
		}
		chunk = append(chunk, line)
	}
	if sawAmount {
		parseTXTChunk(result, chunkStart, chunk, now)
	}
	return result, nil
}

func parseTXTChunk(result *Result, line int, chunk []string, now time.Time) {
	if len(chunk) < 4 {
		result.skip(line, "truncated transaction block")
		return
	}

	offset := 0
	dateStr := chunk[0]
	if yearLine.MatchString(chunk[1]) {
		dateStr += " " + chunk[1]
		offset = 1
	} else {
		dateStr += " " + now.Format("2006")
	}
	date, err := parseFrenchDate(dateStr)
	if err != nil {
		result.skip(line, err.Error())
		return
	}

	if len(chunk) < 7+offset {
		result.skip(line, "truncated transaction block")
		return
	}
	description := chunk[2+offset]
	category := chunk[3+offset]
	amount, err := parseAmount(chunk[6+offset])
	if err != nil {
		result.skip(line, "unparseable amount")
		return
	}

	candidate := Candidate{
		Date:         date,
		Description:  description,
		Amount:       amount,
		Currency:     "CAD",
		CategoryName: category,
		BankName:     "TANGERINE",
	}
	if len(chunk) > 7+offset {
		if cashBack, err := parseAmount(chunk[7+offset]); err == nil {
			candidate.CashBack = &cashBack
		}
	}
	result.appendCandidate(line, candidate)
}
