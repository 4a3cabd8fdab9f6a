package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/nao1215/phishcheck/internal/database"
	"github.com/nao1215/phishcheck/internal/predict"
)

// Error messages returned in {"error": ...} bodies.
const (
	msgURLRequired   = "URL is required"
	msgURLNotString  = "url must be a string"
	msgInvalidJSON   = "invalid JSON body"
	msgBodyTooLarge  = "request body too large"
	msgInvalidLimit  = "limit must be a positive integer"
	msgEntryNotFound = "no history for url"
)

// analyzeRequest is the body of POST /analyze-url. URL is decoded as
// json.RawMessage so that a missing key, null and non-string values can be
// told apart.
type analyzeRequest struct {
	URL json.RawMessage `json:"url"`
}

// analyzeResponse is the success body of POST /analyze-url.
type analyzeResponse struct {
	Label string  `json:"prediction_label"`
	Score float64 `json:"prediction_score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	Entries []database.Entry `json:"entries"`
	Count   int              `json:"count"`
	Limit   int              `json:"limit"`
}

type clearResponse struct {
	Deleted int64 `json:"deleted"`
}

type healthResponse struct {
	Status string    `json:"status"`
	Model  ModelInfo `json:"model"`
}

// pageData feeds templates/index.html.
type pageData struct {
	URL     string
	Result  *predict.Result
	Error   string
	History []database.Entry
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, pageData{})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		status := http.StatusBadRequest
		if isTooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		s.renderPage(w, r, status, pageData{Error: "could not read the submitted form"})
		return
	}

	rawURL := r.PostForm.Get("url")
	if rawURL == "" {
		s.renderPage(w, r, http.StatusBadRequest, pageData{Error: msgURLRequired})
		return
	}

	res, err := s.predictor.Predict(r.Context(), rawURL)
	if err != nil {
		s.logger.Error("form prediction failed", "url", rawURL, "error", err)
		s.renderPage(w, r, http.StatusInternalServerError, pageData{URL: rawURL, Error: err.Error()})
		return
	}

	s.renderPage(w, r, http.StatusOK, pageData{URL: rawURL, Result: &res})
}

func (s *Server) handleAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeSingle(r.Body, &req); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	raw := bytes.TrimSpace(req.URL)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}
	var rawURL string
	if err := json.Unmarshal(raw, &rawURL); err != nil {
		writeError(w, http.StatusBadRequest, msgURLNotString)
		return
	}
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}

	res, err := s.predictor.Predict(r.Context(), rawURL)
	if err != nil {
		s.logger.Error("api prediction failed", "url", rawURL, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Label: res.Label, Score: res.Score})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if u := q.Get("url"); u != "" {
		e, err := s.history.Lookup(ctx, u)
		if err != nil {
			s.logger.Error("history lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if e == nil {
			writeError(w, http.StatusNotFound, msgEntryNotFound)
			return
		}
		writeJSON(w, http.StatusOK, e)
		return
	}

	limit := s.historyLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, msgInvalidLimit)
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(ctx, limit)
	if err != nil {
		s.logger.Error("history query failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []database.Entry{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Entries: entries, Count: len(entries), Limit: limit})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	n, err := s.history.Clear(r.Context())
	if err != nil {
		s.logger.Error("history clear failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("history cleared", "deleted", n)
	writeJSON(w, http.StatusOK, clearResponse{Deleted: n})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Model: s.modelInfo})
}

// renderPage renders the form page. Recent history is shown when available;
// a history failure is logged and the page is rendered without it.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	if s.history != nil {
		entries, err := s.history.Recent(r.Context(), s.historyLimit)
		if err != nil {
			s.logger.Warn("history unavailable for page", "error", err)
		}
		data.History = entries
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("template execution failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeSingle decodes exactly one JSON value from r into v.
func decodeSingle(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
