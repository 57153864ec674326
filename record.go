package rtiform

import (
	"slices"
	"time"

	"github.com/alnah/go-rtiform/internal/dateutil"
)

// Section identifies a step of the application wizard.
type Section int

// Wizard sections in order. SectionCompleted is terminal.
const (
	SectionApplicant Section = iota + 1
	SectionAuthority
	SectionRequest
	SectionDeclaration
	SectionCompleted
)

// SectionCount is the number of editable sections.
const SectionCount = 4

// String returns the lowercase section key used in logs and field paths.
func (s Section) String() string {
	switch s {
	case SectionApplicant:
		return "applicant"
	case SectionAuthority:
		return "authority"
	case SectionRequest:
		return "request"
	case SectionDeclaration:
		return "declaration"
	case SectionCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Title returns the heading shown for the section.
func (s Section) Title() string {
	switch s {
	case SectionApplicant:
		return "Applicant Details"
	case SectionAuthority:
		return "Authority Selection"
	case SectionRequest:
		return "RTI Questions"
	case SectionDeclaration:
		return "Finalize & Sign"
	case SectionCompleted:
		return "Application Drafted"
	default:
		return ""
	}
}

// Question list bounds.
const (
	MinQuestions = 1
	MaxQuestions = 10
)

// Applicant identifies the citizen filing the request.
type Applicant struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Place   string `yaml:"place"`
	Email   string `yaml:"email,omitempty"`
	Phone   string `yaml:"phone,omitempty"`
}

// Authority is the local body whose Public Information Officer receives the request.
type Authority struct {
	District      string `yaml:"district"`
	LocalBodyType string `yaml:"localBodyType"`
	LocalBodyName string `yaml:"localBodyName"`
}

// Request holds the subject matter and the questions asked.
type Request struct {
	Subject   string   `yaml:"subject"`
	Questions []string `yaml:"questions"`
}

// Declaration closes the application.
type Declaration struct {
	Place     string
	Date      time.Time
	Signature SignatureAsset
}

// ApplicationRecord is everything the applicant enters for one application.
type ApplicationRecord struct {
	Applicant   Applicant
	Authority   Authority
	Request     Request
	Declaration Declaration
}

// NewRecord returns a record with defaults: one empty question and the
// declaration dated on the calendar day of today.
func NewRecord(today time.Time) *ApplicationRecord {
	return &ApplicationRecord{
		Request: Request{Questions: []string{""}},
		Declaration: Declaration{
			Date: dateutil.CalendarDate(today),
		},
	}
}

// Clone returns a deep copy of the record.
func (r *ApplicationRecord) Clone() *ApplicationRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Request.Questions = slices.Clone(r.Request.Questions)
	c.Declaration.Signature = r.Declaration.Signature.Clone()
	return &c
}
