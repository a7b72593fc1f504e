package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/docgraph/pkg/buildinfo"
	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Code      errors.Code    `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Graph     *diagram.Graph `json:"graph,omitempty"`
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// handleGraph builds the posted document and answers with the graph JSON.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}
	s.execute(w, r, opts)
}

// handleRender builds the posted document and answers with one artifact.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	q := r.URL.Query()
	output := q.Get("output")
	if output == "" {
		output = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(output); err != nil {
		writeError(w, r, err, nil)
		return
	}
	opts.Formats = []string{output}
	opts.Rankdir = q.Get("rankdir")
	if v := q.Get("detailed"); v != "" {
		if opts.Detailed, err = strconv.ParseBool(v); err != nil {
			writeError(w, r, errors.New(errors.ErrCodeInvalidOptions, "detailed: %q is not a boolean", v), nil)
			return
		}
	}
	s.execute(w, r, opts)
}

// execute runs the pipeline for a one-shot request and writes the single
// requested artifact.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	doc, err := readBody(w, r, opts.MaxSize)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		var g *diagram.Graph
		if res != nil && res.Graph != nil {
			g = res.Graph
		}
		writeError(w, r, err, g)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "miss"
	if res.CacheInfo.BuildHit && res.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Graph-Hash", res.GraphHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// handleSession answers with the stored state of a live session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := session.ValidateID(id); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "session %q", id), nil)
		return
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	if sess == nil {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "session %s not found or expired", id), nil)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// options derives build options from the server defaults and the query.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Formats = nil
	opts.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))

	q := r.URL.Query()
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOptions, "max_depth: %q is not an integer", v)
		}
		opts.MaxDepth = n
	}
	for name, dst := range map[string]*bool{"unique_ids": &opts.UniqueIDs, "refresh": &opts.Refresh} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOptions, "%s: %q is not a boolean", name, v)
		}
		*dst = b
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = errors.DefaultMaxDocumentSize
	}
	return opts, nil
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			return nil, errors.New(errors.ErrCodeTooLarge, "document exceeds %d bytes", limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the status mapped from err's code. g, when
// non-nil, is included so clients can still draw something.
func writeError(w http.ResponseWriter, r *http.Request, err error, g *diagram.Graph) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
		Graph:     g,
	})
}
