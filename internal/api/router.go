package api

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route served by s.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	// pages
	r.HandleFunc("/", s.IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/pages/{slug}", s.PageHandler).Methods(http.MethodGet)
	r.HandleFunc("/session/reset", s.ResetSessionHandler).Methods(http.MethodPost)

	// forms
	r.HandleFunc("/verify/id", s.VerifyIDHandler).Methods(http.MethodPost)
	r.HandleFunc("/verify/document", s.VerifyDocumentHandler).Methods(http.MethodPost)
	r.HandleFunc("/verify/{id}/certificate", s.CertificateHandler).Methods(http.MethodGet)
	r.HandleFunc("/institutions/register", s.RegisterInstitutionHandler).Methods(http.MethodPost)
	r.HandleFunc("/institutions/issue", s.IssueCredentialHandler).Methods(http.MethodPost)

	// json api
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/credentials/{id}", s.GetCredentialHandler).Methods(http.MethodGet)
	api.HandleFunc("/verify", s.VerifyAPIHandler).Methods(http.MethodPost)
	api.HandleFunc("/verify/{id}/stream", s.VerifyStreamHandler).Methods(http.MethodGet)
	api.HandleFunc("/fingerprint", s.FingerprintHandler).Methods(http.MethodGet)

	static, err := fs.Sub(staticFS, "static")
	if err == nil {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}
	return r
}
