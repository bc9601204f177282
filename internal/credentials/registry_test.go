package credentials

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrylevesque/academicverify/internal/crypto"
	"github.com/harrylevesque/academicverify/internal/models"
)

func fixedGenerator() *crypto.Generator {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return crypto.NewGenerator(func() time.Time { return at })
}

func TestSampleRegistry_Lookup(t *testing.T) {
	reg := NewSampleRegistry(fixedGenerator())

	rec, ok := reg.Lookup("CRED-001")
	require.True(t, ok)
	assert.Equal(t, "John Smith", rec.StudentName)
	assert.Equal(t, "BSc Computer Science", rec.Degree)
	assert.Equal(t, models.StatusVerified, rec.Status)
	assert.NotEmpty(t, rec.Fingerprint)

	_, ok = reg.Lookup("CRED-999")
	assert.False(t, ok)
}

func TestSampleRegistry_CoversEveryStatus(t *testing.T) {
	reg := NewSampleRegistry(nil)
	seen := map[models.Status]bool{}
	for _, rec := range reg.All() {
		require.True(t, rec.Status.Valid(), rec.ID)
		seen[rec.Status] = true
	}
	assert.True(t, seen[models.StatusVerified])
	assert.True(t, seen[models.StatusPending])
	assert.True(t, seen[models.StatusRejected])
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	reg := NewSampleRegistry(fixedGenerator())

	rec, _ := reg.Lookup("CRED-002")
	rec.StudentName = "Mallory"
	rec.Status = models.StatusRejected

	again, _ := reg.Lookup("CRED-002")
	assert.Equal(t, "Emma Johnson", again.StudentName)
	assert.Equal(t, models.StatusVerified, again.Status)

	all := reg.All()
	all[0].Degree = "changed"
	assert.NotEqual(t, "changed", reg.All()[0].Degree)
}

func TestRegistry_OrderAndDuplicates(t *testing.T) {
	reg := NewRegistry(nil, []models.CredentialRecord{
		{ID: "B", StudentName: "first"},
		{ID: "A"},
		{ID: "B", StudentName: "second"},
	})
	require.Equal(t, 2, reg.Len())
	all := reg.All()
	assert.Equal(t, "A", all[0].ID)
	assert.Equal(t, "second", all[1].StudentName)
}

func TestDocumentCredentialPresent(t *testing.T) {
	rec, ok := NewSampleRegistry(nil).Lookup(DocumentCredentialID)
	require.True(t, ok)
	assert.Equal(t, "Sarah Williams", rec.StudentName)
	assert.Equal(t, "2023-06-15", rec.IssueDate.Format(models.DateLayout))
}
