package api

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/harrylevesque/academicverify/internal/crypto"
	"github.com/harrylevesque/academicverify/internal/pages"
	"github.com/harrylevesque/academicverify/internal/portal"
	"github.com/harrylevesque/academicverify/internal/session"
	"github.com/harrylevesque/academicverify/internal/verify"
)

// DefaultMaxUploadBytes caps multipart uploads when Deps leaves it zero.
const DefaultMaxUploadBytes = 10 << 20

// Deps are the components the HTTP layer drives.
type Deps struct {
	Router         *pages.Router
	Pipeline       *verify.Pipeline
	Portal         *portal.Portal
	Sessions       *session.Store
	Fingerprints   *crypto.Generator
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// Server serves the dashboard pages and the JSON API.
type Server struct {
	pages        *pages.Router
	pipeline     *verify.Pipeline
	portal       *portal.Portal
	sessions     *session.Store
	fingerprints *crypto.Generator
	logger       *zap.Logger
	views        *renderer
	maxUpload    int64
}

// NewServer validates deps and parses the page templates.
func NewServer(d Deps) (*Server, error) {
	if d.Router == nil || d.Pipeline == nil || d.Portal == nil || d.Sessions == nil || d.Fingerprints == nil {
		return nil, fmt.Errorf("api: missing dependency")
	}
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Server{
		pages:        d.Router,
		pipeline:     d.Pipeline,
		portal:       d.Portal,
		sessions:     d.Sessions,
		fingerprints: d.Fingerprints,
		logger:       logger,
		views:        views,
		maxUpload:    maxUpload,
	}, nil
}

// Handler returns the routed handler wrapped in logging and recovery.
func (s *Server) Handler() http.Handler {
	return s.recoverer(s.requestLogger(NewRouter(s)))
}
