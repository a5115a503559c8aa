package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/covergauge/covergauge"
)

// analyzerName is the static identifier reported by the health surface.
const analyzerName = "Insurance Document Analyzer with Fine-tuned Instructions"

type handler struct {
	engine covergauge.Engine
	cfg    covergauge.Config
}

func newHandler(e covergauge.Engine, cfg covergauge.Config) *handler {
	return &handler{engine: e, cfg: cfg}
}

// POST /api/v1/analyze-coverage
// Accepts a multipart form with two PDF uploads (policy_disclosure,
// schedule_coverage) and two text fields (insurance_type, question).
func (h *handler) handleAnalyzeCoverage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Server.RequestTimeout)
	defer cancel()

	maxBytes := h.cfg.Server.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	policyPDF, err := readPDFPart(r, "policy_disclosure", "Policy Disclosure must be a PDF file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	schedulePDF, err := readPDFPart(r, "schedule_coverage", "Schedule of Coverage must be a PDF file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	insuranceType := strings.TrimSpace(r.FormValue("insurance_type"))
	if insuranceType == "" {
		writeError(w, http.StatusBadRequest, "insurance_type is required")
		return
	}

	question := r.FormValue("question")
	if strings.TrimSpace(question) == "" {
		writeError(w, http.StatusBadRequest, "Question cannot be empty")
		return
	}

	assessment, err := h.engine.Analyze(ctx, covergauge.CoverageRequest{
		PolicyPDF:     policyPDF,
		SchedulePDF:   schedulePDF,
		InsuranceType: insuranceType,
		Question:      question,
	})
	if err != nil {
		switch {
		case errors.Is(err, covergauge.ErrEmptyQuestion), errors.Is(err, covergauge.ErrMissingDocument):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("analysis failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Error processing request: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// readPDFPart pulls one uploaded file out of the parsed form and
// enforces its declared content type.
func readPDFPart(r *http.Request, field, typeMsg string) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%s is required", field)
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "application/pdf" {
		return nil, errors.New(typeMsg)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", field, err)
	}
	return data, nil
}

// GET /api/v1/health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"model":     analyzerName,
	})
}

// GET /api/v1/
func (h *handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Insurance Document Analyzer API",
		"version":       covergauge.Version,
		"description":   "Upload PDS and Schedule PDFs with your coverage question to get immediate analysis",
		"main_endpoint": "/api/v1/analyze-coverage",
		"features": []string{
			"Single API call for complete analysis",
			"Fine-tuned model with conservative assessment framework",
			"Structured 40-word explanations",
			"Percentage-based confidence scoring",
			"Professional insurance policy interpretation",
		},
	})
}

// GET /
func (h *handler) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Insurance Coverage Analyzer API",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
