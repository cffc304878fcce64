package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/backend/internal/application/importer"
)

func TestStatementTangerineUpload(t *testing.T) {
	srv := newTestServer(t)
	token := srv.bearer(t, "alice@example.com")

	csv := []byte("Date,Name,Memo,Amount\n" +
		"01/15/2024,TIM HORTONS,Restaurants,-4.99\n" +
		"bad-date,X,Y,-1.00\n")
	w := srv.doMultipart(t, "/api/statements/tangerine", token,
		"statement.csv", csv, map[string]string{"bank": "TANGERINE"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result importer.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Records, 1)
	assert.Len(t, result.Skipped, 1)
	assert.Equal(t, "TIM HORTONS", result.Records[0].Description)
}

func TestStatementUploadRequiresFile(t *testing.T) {
	srv := newTestServer(t)
	token := srv.bearer(t, "alice@example.com")

	w := srv.doMultipart(t, "/api/statements/rbc", token, "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatementRejectsUnparseableFile(t *testing.T) {
	srv := newTestServer(t)
	token := srv.bearer(t, "alice@example.com")

	w := srv.doMultipart(t, "/api/statements/tangerine", token,
		"empty.csv", []byte("   "), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
