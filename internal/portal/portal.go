// Package portal implements the institution-facing forms: registration and
// credential issuance. Nothing submitted here is stored; each call returns a
// fabricated record for display.
package portal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harrylevesque/academicverify/internal/crypto"
	"github.com/harrylevesque/academicverify/internal/models"
	"github.com/harrylevesque/academicverify/internal/verify"
)

// Country is one of the registration form's options.
type Country string

const (
	CountryUSA    Country = "USA"
	CountryUK     Country = "UK"
	CountryCanada Country = "Canada"
	CountryOther  Country = "Other"
)

// Countries lists the registration options in display order.
var Countries = []Country{CountryUSA, CountryUK, CountryCanada, CountryOther}

// ParseCountry maps a form value to a Country; anything unknown is Other.
func ParseCountry(s string) Country {
	for _, c := range Countries {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c
		}
	}
	return CountryOther
}

const idDigestLength = 6

// Registration is the pending record returned after an institution applies.
type Registration struct {
	InstitutionID string        `json:"institution_id"`
	Name          string        `json:"name"`
	Country       Country       `json:"country"`
	Email         string        `json:"email"`
	Status        models.Status `json:"status"`
}

// IssuedCredential is the record returned after an institution issues a
// credential.
type IssuedCredential struct {
	CredentialID string `json:"credential_id"`
	StudentName  string `json:"student_name"`
	Degree       string `json:"degree"`
	IssueDate    string `json:"issue_date"`
	ContentID    string `json:"content_id"`
}

// Portal handles institution form submissions.
type Portal struct {
	now    func() time.Time
	logger *zap.Logger
}

// New returns a Portal. A nil now uses time.Now and a nil logger discards.
func New(now func() time.Time, logger *zap.Logger) *Portal {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Portal{now: now, logger: logger}
}

// Register accepts an institution application.
func (p *Portal) Register(name, country, email string) (Registration, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return Registration{}, verify.NewError(verify.CodeMissingInput, "Please enter the institution name")
	}
	if email == "" {
		return Registration{}, verify.NewError(verify.CodeMissingInput, "Please enter a contact email")
	}
	reg := Registration{
		InstitutionID: "INST-" + crypto.HexDigest(name, idDigestLength),
		Name:          name,
		Country:       ParseCountry(country),
		Email:         email,
		Status:        models.StatusPending,
	}
	p.logger.Info("institution registration submitted",
		zap.String("institution_id", reg.InstitutionID),
		zap.String("country", string(reg.Country)))
	return reg, nil
}

// Issue fabricates a credential for student. An empty issueDate means today.
func (p *Portal) Issue(student, degree, issueDate string) (IssuedCredential, error) {
	student = strings.TrimSpace(student)
	degree = strings.TrimSpace(degree)
	if student == "" {
		return IssuedCredential{}, verify.NewError(verify.CodeMissingInput, "Please enter the student name")
	}
	if degree == "" {
		return IssuedCredential{}, verify.NewError(verify.CodeMissingInput, "Please enter the degree awarded")
	}
	issued, err := p.parseDate(issueDate)
	if err != nil {
		return IssuedCredential{}, err
	}
	cred := IssuedCredential{
		CredentialID: "CRED-" + crypto.HexDigest(student, idDigestLength),
		StudentName:  student,
		Degree:       degree,
		IssueDate:    issued.Format(models.DateLayout),
	}
	payload, err := json.Marshal(cred)
	if err != nil {
		return IssuedCredential{}, fmt.Errorf("encode issued credential: %w", err)
	}
	if cred.ContentID, err = crypto.ContentID(payload); err != nil {
		return IssuedCredential{}, fmt.Errorf("content id: %w", err)
	}
	p.logger.Info("credential issued",
		zap.String("credential_id", cred.CredentialID),
		zap.String("content_id", cred.ContentID))
	return cred, nil
}

func (p *Portal) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return p.now(), nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, verify.NewError(verify.CodeMissingInput, "Issue date must be in YYYY-MM-DD format")
	}
	return t, nil
}
