package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/usecases"
)

type matchJSON struct {
	DocumentID string   `json:"document_id,omitempty"`
	Source     string   `json:"source"`
	Score      float64  `json:"score"`
	Percentage int      `json:"percentage"`
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
}

func toMatchJSON(m entities.MatchResult) matchJSON {
	return matchJSON{
		DocumentID: m.DocumentID,
		Source:     m.Source,
		Score:      m.Score,
		Percentage: m.Percentage(),
		Matched:    nonNil(m.Matched),
		Missing:    nonNil(m.Missing),
	}
}

type exampleJSON struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

func toExamplesJSON(r entities.RetrievalResult) []exampleJSON {
	out := make([]exampleJSON, len(r.Examples))
	for i, n := range r.Examples {
		out[i] = exampleJSON{Text: n.Payload, Distance: n.Distance}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// handleHealth reports the engine lifecycle state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok"}
	if e := s.svc.Engine; e != nil {
		resp["engine"] = e.State().String()
		resp["examples"] = e.Size()
		resp["dimension"] = e.Dimension()
		if err := e.Err(); err != nil {
			resp["status"] = "degraded"
			resp["error"] = err.Error()
		}
	}
	if s.svc.Inbox != nil {
		resp["inbox"] = s.svc.Inbox.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

type analyzeRequest struct {
	Resume         string `json:"resume"`
	ResumeName     string `json:"resume_name"`
	JobDescription string `json:"job_description"`
	Feedback       bool   `json:"feedback"`
}

// handleAnalyze scores one resume, sent as JSON text or as a multipart "resume" file.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		docs, err := s.parseUploads(r, "resume")
		if err != nil {
			writeFailure(w, err, "")
			return
		}
		if len(docs) == 0 {
			writeError(w, http.StatusBadRequest, "resume file required")
			return
		}
		req.Resume, req.ResumeName = docs[0].Content, docs[0].Name
		req.JobDescription = r.FormValue("job_description")
		req.Feedback, _ = strconv.ParseBool(r.FormValue("feedback"))
	} else if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := req.ResumeName
	if name == "" {
		name = "resume"
	}
	analysis, err := s.svc.Analyze.Analyze(r.Context(), usecases.AnalyzeRequest{
		Resume:         entities.NewDocument(name, req.Resume),
		JobDescription: req.JobDescription,
		WithFeedback:   req.Feedback,
	})
	if err != nil && analysis == nil {
		writeFailure(w, err, "no score available")
		return
	}

	resp := map[string]interface{}{
		"match":  toMatchJSON(analysis.Match),
		"chunks": nonNil(analysis.Chunks),
	}
	if analysis.Feedback != "" {
		resp["feedback"] = analysis.Feedback
	}
	// The score stands even when feedback generation fails.
	if err != nil {
		resp["feedback_error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSelect picks the best of several uploaded resumes for a job description.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	docs, err := s.parseUploads(r, "resumes")
	if err != nil {
		writeFailure(w, err, "")
		return
	}

	jd := entities.NewDocument("job description", r.FormValue("job_description"))
	if jd.IsBlank() {
		writeError(w, http.StatusBadRequest, "job description required")
		return
	}

	best, results, err := s.svc.Selector.SelectBest(r.Context(), docs, jd)
	if err != nil {
		writeFailure(w, err, "no score available")
		return
	}
	writeSelection(w, best, results)
}

// handleSelectInbox picks the best resume from the watched resume directory.
func (s *Server) handleSelectInbox(w http.ResponseWriter, r *http.Request) {
	if s.svc.Inbox == nil {
		writeError(w, http.StatusNotFound, "resume inbox is not configured")
		return
	}
	var req struct {
		JobDescription string `json:"job_description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		writeError(w, http.StatusBadRequest, "job description required")
		return
	}

	doc, results, err := s.svc.Inbox.SelectBest(r.Context(), req.JobDescription)
	if err != nil {
		writeFailure(w, err, "no score available")
		return
	}
	best := 0
	for i, res := range results {
		if res.DocumentID == doc.ID {
			best = i
			break
		}
	}
	writeSelection(w, best, results)
}

func writeSelection(w http.ResponseWriter, best int, results []entities.MatchResult) {
	out := make([]matchJSON, len(results))
	for i, m := range results {
		out[i] = toMatchJSON(m)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"best_index": best,
		"best":       out[best],
		"results":    out,
	})
}

// parseUploads extracts text from every file under field. Blank files are skipped.
func (s *Server) parseUploads(r *http.Request, field string) ([]entities.Document, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var docs []entities.Document
	for _, fh := range r.MultipartForm.File[field] {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}

		text, err := s.svc.Parser.Parse(r.Context(), data, fh.Filename)
		if err != nil {
			return nil, fmt.Errorf("%s: %v: %w", fh.Filename, err, entities.ErrEmptyInput)
		}
		doc := entities.NewDocument(fh.Filename, text)
		if doc.IsBlank() {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// handleExamples returns the nearest reference bullets for a query.
func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	k := usecases.DefaultSuggestK
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "k must be an integer")
			return
		}
		k = n
	}

	res, err := s.svc.Retriever.Retrieve(r.Context(), q, k)
	if err != nil {
		writeFailure(w, err, "no examples found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":    q,
		"examples": toExamplesJSON(res),
	})
}

type suggestRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"job_description"`
}

// handleSuggest rewrites resume bullets grounded on retrieved examples.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sug, err := s.svc.Suggest.Suggest(r.Context(), req.Resume, req.JobDescription)
	if err != nil {
		writeFailure(w, err, "no examples found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"examples":   toExamplesJSON(sug.Examples),
		"suggestion": sug.Text,
	})
}

// handleSuggestStream streams the rewrite over SSE. The first event carries the examples.
func (s *Server) handleSuggestStream(w http.ResponseWriter, r *http.Request) {
	resume := r.URL.Query().Get("resume")
	jd := r.URL.Query().Get("job_description")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	examples, tokens, err := s.svc.Suggest.Stream(r.Context(), resume, jd)
	if err != nil {
		writeFailure(w, err, "no examples found")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendSSE(w, flusher, map[string]interface{}{"examples": toExamplesJSON(examples), "done": false})
	for token := range tokens {
		if token.Error != nil {
			sendSSE(w, flusher, map[string]interface{}{"error": token.Error.Error(), "done": true})
			return
		}
		sendSSE(w, flusher, map[string]interface{}{"content": token.Content, "done": token.Done})
	}
}

// handleStar generates a STAR interview answer.
func (s *Server) handleStar(w http.ResponseWriter, r *http.Request) {
	var req usecases.StarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	story, examples, err := s.svc.Star.Generate(r.Context(), req)
	if err != nil && story == nil {
		writeFailure(w, err, "no examples found")
		return
	}
	resp := map[string]interface{}{
		"story":    story,
		"examples": toExamplesJSON(examples),
	}
	if err != nil {
		resp["save_error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	stories, err := s.svc.Star.List(r.Context())
	if err != nil {
		writeFailure(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.svc.Tracker.List(r.Context())
	if err != nil {
		writeFailure(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var app entities.Application
	if err := decodeJSON(w, r, &app); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.Tracker.Create(r.Context(), &app); err != nil {
		writeFailure(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	var app entities.Application
	if err := decodeJSON(w, r, &app); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	app.ID = r.PathValue("id")
	if err := s.svc.Tracker.Update(r.Context(), &app); err != nil {
		writeFailure(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tracker.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Tracker.Summary(r.Context())
	if err != nil {
		writeFailure(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
