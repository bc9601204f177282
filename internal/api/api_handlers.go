package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/harrylevesque/academicverify/internal/models"
	"github.com/harrylevesque/academicverify/internal/verify"
)

// VerifyRequest is the body of POST /api/verify.
type VerifyRequest struct {
	CredentialID string `json:"credential_id"`
}

// VerifyResponse is the body returned by POST /api/verify.
type VerifyResponse struct {
	Result models.VerificationResult `json:"result"`
	Steps  []verify.Step             `json:"steps"`
}

// StreamEvent is one NDJSON line of /api/verify/{id}/stream. Exactly one
// field is set.
type StreamEvent struct {
	Step   *verify.Step               `json:"step,omitempty"`
	Result *models.VerificationResult `json:"result,omitempty"`
	Error  *verify.Error              `json:"error,omitempty"`
}

// FingerprintResponse is the body returned by GET /api/fingerprint.
type FingerprintResponse struct {
	Seed        string `json:"seed"`
	Fingerprint string `json:"fingerprint"`
}

// GetCredentialHandler returns the unpaced verification result for an id.
func (s *Server) GetCredentialHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.pipeline.Lookup(mux.Vars(r)["id"])
	if err != nil {
		s.writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// VerifyAPIHandler runs a paced verification and returns the result with
// the steps it went through.
func (s *Server) VerifyAPIHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, verify.NewError(verify.CodeMissingInput, "invalid request body"))
		return
	}
	var steps []verify.Step
	res, err := s.pipeline.Run(verify.CredentialID(req.CredentialID), func(st verify.Step) {
		steps = append(steps, st)
	})
	if err != nil {
		s.writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Result: res, Steps: steps})
}

// VerifyStreamHandler streams each step as it happens, then the result, as
// newline-delimited JSON.
func (s *Server) VerifyStreamHandler(w http.ResponseWriter, r *http.Request) {
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
	}

	res, err := s.pipeline.Run(verify.CredentialID(mux.Vars(r)["id"]), func(st verify.Step) {
		start()
		if err := enc.Encode(StreamEvent{Step: &st}); err != nil {
			s.logger.Debug("stream step", zap.Error(err))
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	})
	if err != nil && !started {
		s.writeJSONError(w, err)
		return
	}
	start()
	ev := StreamEvent{Result: &res}
	if err != nil {
		verr, ok := verify.AsError(err)
		if !ok {
			s.logger.Error("verification stream", zap.Error(err))
			verr = verify.NewError("INTERNAL", "internal server error")
		}
		ev = StreamEvent{Error: verr}
	}
	if err := enc.Encode(ev); err != nil {
		s.logger.Debug("stream result", zap.Error(err))
	}
}

// FingerprintHandler returns a fresh fingerprint for the seed query value.
func (s *Server) FingerprintHandler(w http.ResponseWriter, r *http.Request) {
	seed := r.URL.Query().Get("seed")
	if seed == "" {
		writeJSON(w, http.StatusBadRequest, verify.NewError(verify.CodeMissingInput, "seed is required"))
		return
	}
	writeJSON(w, http.StatusOK, FingerprintResponse{Seed: seed, Fingerprint: s.fingerprints.Fingerprint(seed)})
}

func (s *Server) writeJSONError(w http.ResponseWriter, err error) {
	verr, ok := verify.AsError(err)
	if !ok {
		s.logger.Error("api", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, verify.NewError("INTERNAL", "internal server error"))
		return
	}
	writeJSON(w, statusFor(verr), verr)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
