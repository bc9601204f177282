package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/harrylevesque/academicverify/internal/certificate"
	"github.com/harrylevesque/academicverify/internal/pages"
	"github.com/harrylevesque/academicverify/internal/verify"
)

// IndexHandler redirects to the session's current page.
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	st := s.loadState(r)
	http.Redirect(w, r, "/pages/"+st.Page.Slug(), http.StatusFound)
}

// PageHandler selects the page named in the URL and renders it.
func (s *Server) PageHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := pages.ParseSlug(mux.Vars(r)["slug"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	st := s.pages.Select(s.loadState(r), p)
	view, err := s.pages.Render(st)
	if err != nil {
		s.internalError(w, "render page", err)
		return
	}
	s.writePage(w, r, st, view, http.StatusOK)
}

// ResetSessionHandler drops the navigation cookie and returns to the dashboard.
func (s *Server) ResetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(w, r); err != nil {
		s.logger.Warn("clear session", zap.Error(err))
	}
	http.Redirect(w, r, "/pages/"+pages.Dashboard.Slug(), http.StatusSeeOther)
}

// VerifyIDHandler runs the pipeline for the submitted credential id.
func (s *Server) VerifyIDHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PostFormValue("credential_id")
	st, view, body, ok := s.verifyPage(w, r)
	if !ok {
		return
	}
	body.Tab = pages.TabID
	body.CredentialID = id
	s.runAndRender(w, r, st, view, body, verify.CredentialID(id))
}

// VerifyDocumentHandler runs the pipeline for an uploaded document. The file
// body is discarded unread.
func (s *Server) VerifyDocumentHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	st, view, body, ok := s.verifyPage(w, r)
	if !ok {
		return
	}
	body.Tab = pages.TabDocument

	var doc verify.DocumentRef
	file, header, err := r.FormFile("document")
	switch {
	case err == nil:
		_ = file.Close()
		doc = verify.DocumentRef{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		}
		body.Filename = header.Filename
	case errors.Is(err, http.ErrMissingFile):
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		// A request that is not multipart is treated as an empty upload.
		s.logger.Debug("read upload", zap.Error(err))
	}
	s.runAndRender(w, r, st, view, body, doc)
}

func (s *Server) verifyPage(w http.ResponseWriter, r *http.Request) (pages.State, pages.View, *pages.VerifyPage, bool) {
	st := s.pages.Select(s.loadState(r), pages.VerifyCredential)
	view, err := s.pages.Render(st)
	if err != nil {
		s.internalError(w, "render page", err)
		return st, view, nil, false
	}
	return st, view, view.Body.(*pages.VerifyPage), true
}

func (s *Server) runAndRender(w http.ResponseWriter, r *http.Request, st pages.State, view pages.View, body *pages.VerifyPage, in verify.Input) {
	res, err := s.pipeline.Run(in, func(step verify.Step) {
		body.Steps = append(body.Steps, step)
	})
	status := http.StatusOK
	if err != nil {
		verr, ok := verify.AsError(err)
		if !ok {
			s.internalError(w, "verification", err)
			return
		}
		body.Error = verr
		status = statusFor(verr)
	} else {
		body.Result = &res
	}
	s.writePage(w, r, st, view, status)
}

// RegisterInstitutionHandler handles the portal registration form.
func (s *Server) RegisterInstitutionHandler(w http.ResponseWriter, r *http.Request) {
	st, view, body, ok := s.portalPage(w, r)
	if !ok {
		return
	}
	body.Tab = pages.TabRegister
	reg, err := s.portal.Register(r.PostFormValue("name"), r.PostFormValue("country"), r.PostFormValue("email"))
	s.finishPortal(w, r, st, view, body, err, func() { body.Registration = &reg })
}

// IssueCredentialHandler handles the portal issuance form.
func (s *Server) IssueCredentialHandler(w http.ResponseWriter, r *http.Request) {
	st, view, body, ok := s.portalPage(w, r)
	if !ok {
		return
	}
	body.Tab = pages.TabManage
	cred, err := s.portal.Issue(r.PostFormValue("student_name"), r.PostFormValue("degree"), r.PostFormValue("issue_date"))
	s.finishPortal(w, r, st, view, body, err, func() { body.Issued = &cred })
}

func (s *Server) portalPage(w http.ResponseWriter, r *http.Request) (pages.State, pages.View, *pages.PortalPage, bool) {
	st := s.pages.Select(s.loadState(r), pages.InstitutionPortal)
	view, err := s.pages.Render(st)
	if err != nil {
		s.internalError(w, "render page", err)
		return st, view, nil, false
	}
	return st, view, view.Body.(*pages.PortalPage), true
}

func (s *Server) finishPortal(w http.ResponseWriter, r *http.Request, st pages.State, view pages.View, body *pages.PortalPage, err error, onSuccess func()) {
	status := http.StatusOK
	if err != nil {
		verr, ok := verify.AsError(err)
		if !ok {
			s.internalError(w, "institution portal", err)
			return
		}
		body.Error = verr
		status = statusFor(verr)
	} else {
		onSuccess()
	}
	s.writePage(w, r, st, view, status)
}

// CertificateHandler downloads a certificate for a registry credential.
func (s *Server) CertificateHandler(w http.ResponseWriter, r *http.Request) {
	format, err := certificate.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.pipeline.Lookup(mux.Vars(r)["id"])
	if err != nil {
		if verr, ok := verify.AsError(err); ok {
			http.Error(w, verr.Message, statusFor(verr))
			return
		}
		s.internalError(w, "certificate lookup", err)
		return
	}
	out, err := certificate.Render(res, format)
	if err != nil {
		s.internalError(w, "render certificate", err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+certificate.Filename(res, format)+`"`)
	_, _ = w.Write(out)
}

func (s *Server) loadState(r *http.Request) pages.State {
	st, err := s.sessions.Load(r)
	if err != nil {
		s.logger.Debug("session cookie discarded", zap.Error(err))
	}
	return st
}

// writePage saves st and renders view. Rendering goes to a buffer first so a
// template failure still produces a clean 500.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, st pages.State, view pages.View, status int) {
	var buf bytes.Buffer
	if err := s.views.render(&buf, view); err != nil {
		s.internalError(w, "execute template", err)
		return
	}
	if err := s.sessions.Save(w, r, st); err != nil {
		s.logger.Warn("save session", zap.String("session_id", st.SessionID), zap.Error(err))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func statusFor(err *verify.Error) int {
	switch err.Code {
	case verify.CodeNotFound:
		return http.StatusNotFound
	case verify.CodeMissingInput, verify.CodeUnsupportedType:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
