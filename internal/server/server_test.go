package server

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestServer(t *testing.T, maxBytes int64) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(Config{
		UploadDir:      dir,
		MaxUploadBytes: maxBytes,
		CORSOrigin:     "*",
		Options:        analysis.DefaultOptions(),
	})
	return s, dir
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, s *Server, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, field, filename, data)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func assertScratchEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directories must be released after each request")
}

// =============================================================================
// Upload Tests
// =============================================================================

func TestUploadCSV(t *testing.T) {
	s, dir := setupTestServer(t, 0)
	csv := "name,score,passed\nann,3,true\nbob,5,false\ncid,4,true\n"

	rec := doUpload(t, s, "file", "scores.csv", []byte(csv))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, successMessage, got["message"])
	assert.Equal(t, "scores.csv", got["filename"])
	assert.EqualValues(t, 3, got["rows"])
	assert.EqualValues(t, 3, got["columns"])
	assert.Equal(t, []any{"name", "score", "passed"}, got["columnNames"])
	assert.Equal(t, map[string]any{"name": "string", "score": "number", "passed": "boolean"}, got["dataTypes"])

	stats := got["numericStats"].(map[string]any)
	require.Contains(t, stats, "score")
	assert.NotContains(t, stats, "name")
	score := stats["score"].(map[string]any)
	assert.EqualValues(t, 12, score["sum"])
	assert.EqualValues(t, 4, score["median"])

	assert.Len(t, got["preview"], 3)
	assertScratchEmpty(t, dir)
}

func TestUploadSpreadsheet(t *testing.T) {
	s, dir := setupTestServer(t, 0)
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"item", "qty"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"bolt", 10}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rec := doUpload(t, s, "file", "stock.xlsx", buf.Bytes())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []any{map[string]any{"item": "bolt", "qty": float64(10)}}, got["preview"])
	assertScratchEmpty(t, dir)
}

func TestUploadHugeValuesStaysEncodable(t *testing.T) {
	s, dir := setupTestServer(t, 0)

	rec := doUpload(t, s, "file", "huge.csv", []byte("x\n1e308\n1e308\n"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	x := got["numericStats"].(map[string]any)["x"].(map[string]any)
	assert.Equal(t, 1e308, x["mean"])
	assert.Equal(t, math.MaxFloat64, x["sum"])
	assertScratchEmpty(t, dir)
}

func TestWriteJSONUnencodableBody(t *testing.T) {
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusOK, map[string]float64{"sum": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var got errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Error processing file", got.Error)
	assert.Contains(t, got.Details, "unsupported value")
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		filename   string
		data       []byte
		maxBytes   int64
		wantStatus int
		wantError  string
		wantDetail bool
	}{
		{
			name:       "no file part",
			wantStatus: http.StatusBadRequest,
			wantError:  "No file uploaded",
		},
		{
			name:       "unsupported extension",
			field:      "file",
			filename:   "notes.txt",
			data:       []byte("hello"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid file type",
			wantDetail: true,
		},
		{
			name:       "oversized file",
			field:      "file",
			filename:   "big.csv",
			data:       bytes.Repeat([]byte("a,b\n"), 64),
			maxBytes:   32,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "File too large",
		},
		{
			name:       "corrupt workbook",
			field:      "file",
			filename:   "broken.xlsx",
			data:       []byte("not a workbook"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Error processing file",
			wantDetail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dir := setupTestServer(t, tt.maxBytes)

			rec := doUpload(t, s, tt.field, tt.filename, tt.data)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantError, got.Error)
			if tt.wantDetail {
				assert.NotEmpty(t, got.Details)
			}
			assertScratchEmpty(t, dir)
		})
	}
}

// =============================================================================
// Misc Routes
// =============================================================================

func TestHealth(t *testing.T) {
	s, _ := setupTestServer(t, 0)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s, _ := setupTestServer(t, 0)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/upload", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
