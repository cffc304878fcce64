package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrenchDate(t *testing.T) {
	for input, want := range map[string]time.Time{
		"12 janv. 2024":   time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
		"3 mars 2024":     time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
		"28 févr. 2023":   time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
		"1 décembre 2024": time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
	} {
		got, err := parseFrenchDate(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "12 foo 2024", "janvier 2024", "12 janv."} {
		_, err := parseFrenchDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseAmount(t *testing.T) {
	for input, want := range map[string]string{
		"-24,99 $":   "-24.99",
		"1 250,00 $": "1250",
		"4.99":       "4.99",
		"-$12,00":    "-12",
	} {
		got, err := parseAmount(input)
		require.NoError(t, err, input)
		assert.True(t, got.Equal(mustDecimal(t, want)), "%s -> %s", input, got)
	}

	_, err := parseAmount("  ")
	assert.Error(t, err)
}

func TestParseTangerineCSV(t *testing.T) {
	data := []byte("Date,Transaction,Name,Memo,Amount\n" +
		"01/15/2024,DEBIT,TIM HORTONS,Restaurants,-4.99\n" +
		"01/16/2024,DEBIT,METRO,Groceries,-52.30\n" +
		"bad-date,DEBIT,SOMETHING,Misc,-1.00\n" +
		"01/17/2024,DEBIT,REFUND,,\n")

	result, err := ParseTangerineCSV(data, "")
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Len(t, result.Skipped, 2)

	first := result.Records[0]
	assert.Equal(t, "TIM HORTONS", first.Description)
	assert.Equal(t, "Restaurants", first.CategoryName)
	assert.Equal(t, "TANGERINE", first.BankName)
	assert.Equal(t, "CAD", first.Currency)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.True(t, first.Amount.Equal(mustDecimal(t, "-4.99")))
}

func TestParseTangerineCSVErrors(t *testing.T) {
	_, err := ParseTangerineCSV([]byte("   "), "")
	assert.ErrorIs(t, err, ErrEmptyStatement)

	_, err = ParseTangerineCSV([]byte("Foo,Bar\n1,2\n"), "")
	assert.Error(t, err)
}

func TestParseTangerineCSVStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF},
		[]byte("Date,Name,Amount\n01/15/2024,SHOP,-1.00\n")...)
	result, err := ParseTangerineCSV(data, "OTHER")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "OTHER", result.Records[0].BankName)
}

func TestParseRBCHTML(t *testing.T) {
	data := []byte(`<html><body><table>
<tr class="rbc-transaction-list-transaction-new">
  <td id="row-1">3 mars 2024</td>
  <td headers="h-desc">ACHAT UBER EATS<div>Restaurants</div></td>
  <td headers="h-wd">-25,50 $</td>
</tr>
<tr class="rbc-transaction-list-transaction-new">
  <td id="row-2">4 mars 2024</td>
  <td headers="h-desc">DEPOT SALAIRE<div>Revenu</div></td>
  <td headers="h-dep">1 200,00 $</td>
</tr>
<tr class="rbc-transaction-list-transaction-new">
  <td id="row-3">pas une date</td>
  <td headers="h-desc">X<div>Y</div></td>
  <td headers="h-wd">-1,00 $</td>
</tr>
</table></body></html>`)

	result, err := ParseRBCHTML(data)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Len(t, result.Skipped, 1)

	first := result.Records[0]
	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Contains(t, first.Description, "ACHAT UBER EATS")
	assert.Equal(t, "Restaurants", first.CategoryName)
	assert.Equal(t, "RBC", first.BankName)
	assert.True(t, first.Amount.Equal(mustDecimal(t, "-25.50")))

	assert.True(t, result.Records[1].Amount.Equal(mustDecimal(t, "1200")))
}

func TestParseTangerineTXT(t *testing.T) {
	data := []byte(`Relevé de compte
Tangerine
Page 1
----
12 janv.
2024
12 janv.
TIM HORTONS
Restaurants
filler
filler
-4,99 $
0,25 $
16 janv.
2024
17 janv.
METRO
Épicerie
filler
filler
-52,30 $
`)
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	result, err := ParseTangerineTXT(data, now)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "TIM HORTONS", first.Description)
	assert.Equal(t, "Restaurants", first.CategoryName)
	assert.Equal(t, "TANGERINE", first.BankName)
	require.NotNil(t, first.CashBack)
	assert.True(t, first.CashBack.Equal(mustDecimal(t, "0.25")))

	second := result.Records[1]
	assert.Nil(t, second.CashBack)
	assert.True(t, second.Amount.Equal(mustDecimal(t, "-52.30")))
}

func TestParseTangerineTXTAssumesCurrentYear(t *testing.T) {
	data := []byte(`l1
l2
l3
l4
12 janv.
posted
TIM HORTONS
Restaurants
filler
filler
-4,99 $
trailer
`)
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	result, err := ParseTangerineTXT(data, now)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 2025, result.Records[0].Date.Year())
}

func TestCandidateValidationSkipsZeroAmount(t *testing.T) {
	result := &Result{}
	result.appendCandidate(7, Candidate{
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "ZERO",
		Currency:    "CAD",
		BankName:    "RBC",
	})
	assert.Empty(t, result.Records)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 7, result.Skipped[0].Line)
	assert.Contains(t, result.Skipped[0].Reason, "Amount")
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}
