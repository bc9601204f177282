package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	out, err := HTML()
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "<h1")
	assert.Contains(t, s, "AcademicVerify Documentation")
	assert.Contains(t, s, "<table>")
	assert.Contains(t, s, "<code>CRED-001</code>")
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Verifying a credential")
	assert.Contains(t, out, "CRED-001")
}

func TestMarkdownIsCopy(t *testing.T) {
	md := Markdown()
	require.True(t, strings.HasPrefix(string(md), "# AcademicVerify"))
	md[0] = 'X'
	assert.True(t, strings.HasPrefix(string(Markdown()), "# AcademicVerify"))
}
