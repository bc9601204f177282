// Package verify runs the scripted credential verification sequence.
//
// A run looks the credential up in the static registry, paces through a fixed
// list of display steps, and returns a freshly fingerprinted result. Document
// uploads are never inspected: every accepted upload resolves to the same
// sample credential.
package verify

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harrylevesque/academicverify/internal/credentials"
	"github.com/harrylevesque/academicverify/internal/models"
)

// DefaultStepDelay is the pause after each emitted step.
const DefaultStepDelay = 300 * time.Millisecond

// DocumentSteps are emitted, in order, for an uploaded document.
var DocumentSteps = []string{
	"Uploading document...",
	"Extracting content...",
	"Verifying authenticity...",
	"Checking records...",
	"Validating blockchain...",
	"Finalizing...",
}

// LookupSteps are emitted, in order, for a credential id.
var LookupSteps = []string{
	"Checking records...",
	"Validating blockchain...",
	"Finalizing...",
}

// SupportedExtensions lists the accepted upload types.
var SupportedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

// Input is either a CredentialID or a DocumentRef.
type Input interface {
	isInput()
}

// CredentialID identifies a record in the registry.
type CredentialID string

func (CredentialID) isInput() {}

// DocumentRef describes an uploaded file. Only the name is looked at.
type DocumentRef struct {
	Filename    string
	ContentType string
	Size        int64
}

func (DocumentRef) isInput() {}

// Step is one pacing event.
type Step struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	Label string `json:"label"`
}

// Percent returns the completed share of the run, 0-100.
func (s Step) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return s.Index * 100 / s.Total
}

// Fingerprinter produces a display fingerprint for a seed.
type Fingerprinter interface {
	Fingerprint(seed string) string
}

// Pipeline runs verifications against a registry.
type Pipeline struct {
	registry     *credentials.Registry
	fingerprints Fingerprinter
	delay        time.Duration
	sleep        func(time.Duration)
	now          func() time.Time
	logger       *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStepDelay sets the pause after each step.
func WithStepDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.delay = d }
}

// WithSleep replaces time.Sleep, mostly for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(p *Pipeline) { p.sleep = sleep }
}

// WithClock sets the source of verification dates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New returns a Pipeline over registry.
func New(registry *credentials.Registry, fp Fingerprinter, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:     registry,
		fingerprints: fp,
		delay:        DefaultStepDelay,
		sleep:        time.Sleep,
		now:          time.Now,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run verifies in, calling emit (if non-nil) once per step. The step sequence
// always runs to completion once the input has been accepted.
func (p *Pipeline) Run(in Input, emit func(Step)) (models.VerificationResult, error) {
	switch v := in.(type) {
	case CredentialID:
		return p.runID(string(v), emit)
	case DocumentRef:
		return p.runDocument(v, emit)
	default:
		return models.VerificationResult{}, fmt.Errorf("unsupported verification input %T", in)
	}
}

// Lookup returns the result for id without pacing.
func (p *Pipeline) Lookup(id string) (models.VerificationResult, error) {
	rec, err := p.find(id)
	if err != nil {
		return models.VerificationResult{}, err
	}
	return p.result(rec), nil
}

func (p *Pipeline) runID(id string, emit func(Step)) (models.VerificationResult, error) {
	rec, err := p.find(id)
	if err != nil {
		p.logger.Warn("credential lookup failed", zap.String("credential_id", id), zap.Error(err))
		return models.VerificationResult{}, err
	}
	p.pace(LookupSteps, emit)
	res := p.result(rec)
	p.logger.Info("credential verified",
		zap.String("credential_id", res.ID),
		zap.String("status", string(res.Status)),
		zap.String("fingerprint", res.Fingerprint))
	return res, nil
}

func (p *Pipeline) runDocument(doc DocumentRef, emit func(Step)) (models.VerificationResult, error) {
	if err := ValidateDocument(doc); err != nil {
		p.logger.Warn("document rejected", zap.String("filename", doc.Filename), zap.Error(err))
		return models.VerificationResult{}, err
	}
	rec, ok := p.registry.Lookup(credentials.DocumentCredentialID)
	if !ok {
		return models.VerificationResult{}, fmt.Errorf("registry has no %s record", credentials.DocumentCredentialID)
	}
	p.pace(DocumentSteps, emit)
	res := p.result(rec)
	p.logger.Info("document verified",
		zap.String("filename", doc.Filename),
		zap.Int64("size", doc.Size),
		zap.String("credential_id", res.ID),
		zap.String("fingerprint", res.Fingerprint))
	return res, nil
}

func (p *Pipeline) find(id string) (models.CredentialRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.CredentialRecord{}, NewError(CodeMissingInput, "Please enter a Credential ID")
	}
	rec, ok := p.registry.Lookup(id)
	if !ok {
		return models.CredentialRecord{}, NewError(CodeNotFound, "Credential ID not found")
	}
	return rec, nil
}

func (p *Pipeline) pace(labels []string, emit func(Step)) {
	for i, label := range labels {
		if emit != nil {
			emit(Step{Index: i + 1, Total: len(labels), Label: label})
		}
		if p.delay > 0 {
			p.sleep(p.delay)
		}
	}
}

func (p *Pipeline) result(rec models.CredentialRecord) models.VerificationResult {
	rec.Fingerprint = p.fingerprints.Fingerprint(rec.ID)
	return models.VerificationResult{
		CredentialRecord:  rec,
		VerificationDate:  p.now(),
		SecuritySealValid: rec.Status == models.StatusVerified,
	}
}

// ValidateDocument checks that an upload is present and has an accepted
// extension. Contents are never read.
func ValidateDocument(doc DocumentRef) error {
	if strings.TrimSpace(doc.Filename) == "" {
		return NewError(CodeMissingInput, "Please upload an academic document")
	}
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	for _, ok := range SupportedExtensions {
		if ext == ok {
			return nil
		}
	}
	return NewError(CodeUnsupportedType, fmt.Sprintf("Unsupported file type %q: upload a PDF, JPG, JPEG or PNG", ext))
}
