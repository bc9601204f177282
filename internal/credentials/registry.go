// Package credentials holds the static, read-only credential table.
package credentials

import (
	"sort"
	"time"

	"github.com/harrylevesque/academicverify/internal/models"
)

// Fingerprinter produces a display fingerprint for a seed.
type Fingerprinter interface {
	Fingerprint(seed string) string
}

// Registry is an immutable lookup table of credential records. Records are
// fingerprinted once when the registry is built and never change afterwards.
type Registry struct {
	records map[string]models.CredentialRecord
	ids     []string
}

// NewRegistry builds a registry from records, fingerprinting each one.
// Duplicate ids keep the last record.
func NewRegistry(fp Fingerprinter, records []models.CredentialRecord) *Registry {
	r := &Registry{records: make(map[string]models.CredentialRecord, len(records))}
	for _, rec := range records {
		if fp != nil {
			rec.Fingerprint = fp.Fingerprint(rec.ID)
		}
		if _, seen := r.records[rec.ID]; !seen {
			r.ids = append(r.ids, rec.ID)
		}
		r.records[rec.ID] = rec
	}
	sort.Strings(r.ids)
	return r
}

// NewSampleRegistry returns the demo table.
func NewSampleRegistry(fp Fingerprinter) *Registry {
	return NewRegistry(fp, SampleRecords())
}

// Lookup returns a copy of the record with the given id.
func (r *Registry) Lookup(id string) (models.CredentialRecord, bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// All returns copies of every record ordered by id.
func (r *Registry) All() []models.CredentialRecord {
	out := make([]models.CredentialRecord, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.records[id])
	}
	return out
}

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.ids) }

// SampleRecords returns the rows shipped with the demo.
func SampleRecords() []models.CredentialRecord {
	return []models.CredentialRecord{
		{ID: "CRED-001", StudentName: "John Smith", Institution: "Tech University", Degree: "BSc Computer Science", IssueDate: date(2022, time.June, 10), Status: models.StatusVerified},
		{ID: "CRED-002", StudentName: "Emma Johnson", Institution: "State University", Degree: "PhD Physics", IssueDate: date(2021, time.December, 15), Status: models.StatusVerified},
		{ID: "CRED-003", StudentName: "Michael Brown", Institution: "Business School", Degree: "MBA", IssueDate: date(2023, time.May, 20), Status: models.StatusPending},
		{ID: DocumentCredentialID, StudentName: "Sarah Williams", Institution: "Tech University", Degree: "BSc Computer Science", IssueDate: date(2023, time.June, 15), Status: models.StatusVerified},
		{ID: "CRED-005", StudentName: "David Lee", Institution: "Liberal Arts College", Degree: "BA Economics", IssueDate: date(2020, time.November, 30), Status: models.StatusRejected},
	}
}

// DocumentCredentialID is the record every uploaded document resolves to.
const DocumentCredentialID = "CRED-004"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
