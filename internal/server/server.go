// Package server exposes variant classification over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/varshithab05/CoviScope/config"
	"github.com/varshithab05/CoviScope/internal/cnn"
	"github.com/varshithab05/CoviScope/internal/sarsvar"
)

const (
	// SequencePath classifies a JSON encoded sequence.
	SequencePath = "/api/sars-variants/predictSarsSequence"

	// FilePath classifies an uploaded FASTA file.
	FilePath = "/api/sars-variants/predictSarsFile"

	// maxUpload caps FASTA uploads. A genome is ~30kb so this is generous.
	maxUpload = 32 << 20
)

// Analyzer is the pipeline a Server delegates to.
type Analyzer interface {
	Analyze(raw string) (*sarsvar.Report, error)
}

// Server routes requests to the analysis pipeline.
type Server struct {
	analyzer Analyzer
	conf     *config.Config
	logger   *log.Logger
	mux      *http.ServeMux
}

type sequenceRequest struct {
	Sequence *string `json:"sequence"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// New returns a Server. A nil logger logs to stderr.
func New(analyzer Analyzer, conf *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	s := &Server{analyzer: analyzer, conf: conf, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("/", s.health)
	s.mux.HandleFunc(SequencePath, s.predictSequence)
	s.mux.HandleFunc(FilePath, s.predictFile)
	return s
}

// Handler wraps the routes in request ID, logging, recovery and CORS middleware.
func (s *Server) Handler() http.Handler {
	return s.requestID(s.recoverer(s.cors(s.mux)))
}

// Serve listens on addr until ctx is canceled, then drains in-flight requests.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Printf("%s %s listening on %s", s.conf.APIName, s.conf.APIVersion, addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"health_check": "OK"})
}

func (s *Server) predictSequence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req sequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}
	if req.Sequence == nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "Invalid request body: sequence is required"})
		return
	}

	report, err := s.analyzer.Analyze(*req.Sequence)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		s.fail(w, r, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) predictFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	report, err := s.analyzeUpload(w, r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Sprintf("Error processing FASTA file: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// analyzeUpload reads the multipart "file" field as FASTA and analyzes it.
func (s *Server) analyzeUpload(w http.ResponseWriter, r *http.Request) (*sarsvar.Report, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return s.analyzer.Analyze(sarsvar.ParseFASTA(string(contents)))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	s.logger.Printf("%s %s %s: %s", w.Header().Get(requestIDHeader), r.Method, r.URL.Path, detail)
	writeJSON(w, status, errorResponse{Detail: detail})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "Method Not Allowed"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// isClientError reports whether err was caused by the request rather than
// the service, ex: a sequence encoded to the wrong shape.
func isClientError(err error) bool {
	var shapeErr *cnn.ShapeError
	return errors.As(err, &shapeErr)
}
