package certificate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrylevesque/academicverify/internal/models"
)

func sampleResult() models.VerificationResult {
	return models.VerificationResult{
		CredentialRecord: models.CredentialRecord{
			ID:          "CRED-004",
			StudentName: "Sarah Williams",
			Institution: "Tech University",
			Degree:      "BSc Computer Science",
			IssueDate:   time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
			Status:      models.StatusVerified,
			Fingerprint: "0123456789ab...",
		},
		VerificationDate:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		SecuritySealValid: true,
	}
}

func TestText(t *testing.T) {
	out := Text(sampleResult())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.Len(t, lines, len(Fields(sampleResult())))
	for _, line := range lines {
		assert.Contains(t, line, ": ")
	}
	assert.Equal(t, "Credential ID: CRED-004", lines[0])
	assert.Contains(t, out, "Issue Date: 2023-06-15\n")
	assert.Contains(t, out, "Blockchain Hash: 0123456789ab...\n")
	assert.Contains(t, out, "Security Seal: Valid\n")
	assert.Contains(t, out, "Signed: "+Signature+"\n")
}

func TestText_InvalidSeal(t *testing.T) {
	res := sampleResult()
	res.Status = models.StatusRejected
	res.SecuritySealValid = false
	assert.Contains(t, Text(res), "Security Seal: Invalid\n")
}

func TestHTML_EscapesFields(t *testing.T) {
	res := sampleResult()
	res.StudentName = "<script>alert(1)</script>"

	out, err := HTML(res)
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="certificate">`)
	assert.Contains(t, out, "<dt>Degree</dt><dd>BSc Computer Science</dd>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)
	assert.Equal(t, "text/html; charset=utf-8", f.ContentType())

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRenderAndFilename(t *testing.T) {
	res := sampleResult()
	b, err := Render(res, FormatText)
	require.NoError(t, err)
	assert.Equal(t, Text(res), string(b))
	assert.Equal(t, "certificate-CRED-004.html", Filename(res, FormatHTML))
}
