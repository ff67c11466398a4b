package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	"github.com/KaramelBytes/sheetlens/internal/parser"
	"github.com/KaramelBytes/sheetlens/internal/upload"
)

const successMessage = "File uploaded and analyzed successfully"

// multipart boundaries and part headers on top of the file bytes
const envelopeSlack = 64 << 10

// acceptedExts is what the upload endpoint takes; the CLI also reads .tsv.
var acceptedExts = []string{".csv", ".xlsx", ".xls"}

type uploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	*analysis.Result
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+envelopeSlack)
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded", Details: err.Error()})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return
	}
	defer file.Close()

	if !accepted(hdr.Filename) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid file type",
			Details: "accepted: " + strings.Join(acceptedExts, ", "),
		})
		return
	}
	if hdr.Size > s.maxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large"})
		return
	}

	sc, err := s.store.Acquire(upload.NewID())
	if err != nil {
		log.Error("acquire scratch", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error processing file"})
		return
	}
	defer func() {
		if err := sc.Release(); err != nil {
			log.Warn("release scratch", "dir", sc.Dir, "error", err)
		}
	}()

	path, err := sc.Write(hdr.Filename, file, s.maxBytes)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large"})
			return
		}
		log.Error("store upload", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error processing file"})
		return
	}

	res, err := parser.ParseFile(path, s.opt)
	if err != nil {
		log.Warn("analysis failed", "filename", hdr.Filename, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error processing file", Details: err.Error()})
		return
	}
	log.Info("analyzed upload",
		"scratch_id", sc.ID,
		"filename", hdr.Filename,
		"bytes", hdr.Size,
		"rows", res.RowCount,
		"columns", res.ColumnCount,
		"duration", time.Since(start),
	)
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:  successMessage,
		Filename: hdr.Filename,
		Result:   res,
	})
}

func accepted(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range acceptedExts {
		if ext == e {
			return true
		}
	}
	return false
}

// writeJSON encodes v before committing the status, so an unencodable body
// turns into a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: "Error processing file", Details: err.Error()})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
