// Package certificate renders downloadable verification certificates.
package certificate

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/harrylevesque/academicverify/internal/models"
)

// Format is a certificate output format.
type Format string

const (
	FormatText Format = "txt"
	FormatHTML Format = "html"
)

// ParseFormat maps a query value to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown certificate format %q", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Signature is the label printed in place of a signature block.
const Signature = "AcademicVerify Registrar"

// Field is one labelled certificate line.
type Field struct {
	Key   string
	Value string
}

// Fields returns the certificate lines for res in display order.
func Fields(res models.VerificationResult) []Field {
	seal := "Invalid"
	if res.SecuritySealValid {
		seal = "Valid"
	}
	return []Field{
		{"Credential ID", res.ID},
		{"Student", res.StudentName},
		{"Institution", res.Institution},
		{"Degree", res.Degree},
		{"Issue Date", res.IssueDate.Format(models.DateLayout)},
		{"Status", string(res.Status)},
		{"Blockchain Hash", res.Fingerprint},
		{"Verification Date", res.VerificationDate.Format(models.DateLayout)},
		{"Security Seal", seal},
		{"Signed", Signature},
	}
}

// Text renders res as "key: value" lines.
func Text(res models.VerificationResult) string {
	var b strings.Builder
	for _, f := range Fields(res) {
		fmt.Fprintf(&b, "%s: %s\n", f.Key, f.Value)
	}
	return b.String()
}

var htmlTemplate = template.Must(template.New("certificate").Parse(`<div class="certificate">
<h2>Verification Certificate</h2>
<dl>
{{- range .}}
<dt>{{.Key}}</dt><dd>{{.Value}}</dd>
{{- end}}
</dl>
</div>
`))

// HTML renders res as a static HTML fragment.
func HTML(res models.VerificationResult) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, Fields(res)); err != nil {
		return "", fmt.Errorf("render certificate: %w", err)
	}
	return buf.String(), nil
}

// Render renders res in format f.
func Render(res models.VerificationResult, f Format) ([]byte, error) {
	if f == FormatHTML {
		s, err := HTML(res)
		return []byte(s), err
	}
	return []byte(Text(res)), nil
}

// Filename returns the download name for res in format f.
func Filename(res models.VerificationResult, f Format) string {
	return fmt.Sprintf("certificate-%s.%s", res.ID, f)
}
