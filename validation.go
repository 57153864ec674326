package rtiform

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/alnah/go-rtiform/internal/jurisdiction"
)

// Length rules, in characters of the trimmed value.
const (
	minNameLength     = 2
	minAddressLength  = 5
	minPlaceLength    = 2
	minSubjectLength  = 5
	maxSubjectLength  = 100
	minQuestionLength = 5
)

// Field paths reported in FieldError.Field.
const (
	FieldApplicantName         = "applicant.name"
	FieldApplicantAddress      = "applicant.address"
	FieldApplicantPlace        = "applicant.place"
	FieldApplicantEmail        = "applicant.email"
	FieldAuthorityDistrict     = "authority.district"
	FieldAuthorityType         = "authority.localBodyType"
	FieldAuthorityName         = "authority.localBodyName"
	FieldRequestSubject        = "request.subject"
	FieldRequestQuestions      = "request.questions"
	FieldDeclarationDate       = "declaration.date"
	FieldDeclarationSignature  = "declaration.signature"
	fieldRequestQuestionFormat = "request.questions[%d]"
)

// FieldError is a validation message scoped to one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError lists every failing field of one section.
type ValidationError struct {
	Section Section
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%s section invalid: %s", e.Section, strings.Join(msgs, "; "))
}

// Message returns the message for field, or "" when the field is valid.
func (e *ValidationError) Message(field string) string {
	if e == nil {
		return ""
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// QuestionField returns the field path of the question at zero-based index i.
func QuestionField(i int) string {
	return fmt.Sprintf(fieldRequestQuestionFormat, i)
}

type fieldErrors []FieldError

func (fe *fieldErrors) add(field, msg string) {
	*fe = append(*fe, FieldError{Field: field, Message: msg})
}

func (fe fieldErrors) result(s Section) error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Section: s, Fields: fe}
}

// charCount counts code points of the trimmed, NFC-normalized value so
// composed and decomposed input measure the same.
func charCount(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(strings.TrimSpace(s)))
}

// ValidateSection checks the fields of one section. It returns nil or a
// *ValidationError. SectionCompleted has nothing to validate.
func ValidateSection(rec *ApplicationRecord, s Section, dir *jurisdiction.Directory) error {
	if rec == nil {
		return ErrNilRecord
	}
	switch s {
	case SectionApplicant:
		return validateApplicant(rec.Applicant)
	case SectionAuthority:
		return validateAuthority(rec.Authority, dir)
	case SectionRequest:
		return validateRequest(rec.Request)
	case SectionDeclaration:
		return validateDeclaration(rec.Declaration)
	default:
		return nil
	}
}

// ValidateRecord checks every section in order and returns the first failure.
func ValidateRecord(rec *ApplicationRecord, dir *jurisdiction.Directory) error {
	for s := SectionApplicant; s <= SectionDeclaration; s++ {
		if err := ValidateSection(rec, s, dir); err != nil {
			return err
		}
	}
	return nil
}

func validateApplicant(a Applicant) error {
	var fe fieldErrors
	if charCount(a.Name) < minNameLength {
		fe.add(FieldApplicantName, "Name is required")
	}
	if charCount(a.Address) < minAddressLength {
		fe.add(FieldApplicantAddress, "Address is required")
	}
	if charCount(a.Place) < minPlaceLength {
		fe.add(FieldApplicantPlace, "Place is required")
	}
	if email := strings.TrimSpace(a.Email); email != "" {
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			fe.add(FieldApplicantEmail, "Invalid email")
		}
	}
	return fe.result(SectionApplicant)
}

func validateAuthority(a Authority, dir *jurisdiction.Directory) error {
	var fe fieldErrors
	switch {
	case strings.TrimSpace(a.District) == "":
		fe.add(FieldAuthorityDistrict, "District is required")
	case dir != nil && !dir.IsDistrict(a.District):
		fe.add(FieldAuthorityDistrict, "Unknown district")
	}
	switch {
	case strings.TrimSpace(a.LocalBodyType) == "":
		fe.add(FieldAuthorityType, "Local body type is required")
	case dir != nil && !dir.IsLocalBodyType(a.LocalBodyType):
		fe.add(FieldAuthorityType, "Unknown local body type")
	}
	switch {
	case strings.TrimSpace(a.LocalBodyName) == "":
		fe.add(FieldAuthorityName, "Local body name is required")
	case dir != nil && len(fe) == 0 && !dir.IsOption(a.District, a.LocalBodyType, a.LocalBodyName):
		fe.add(FieldAuthorityName, "Local body name is not listed for this district and type")
	}
	return fe.result(SectionAuthority)
}

func validateRequest(r Request) error {
	var fe fieldErrors
	n := charCount(r.Subject)
	switch {
	case n > maxSubjectLength:
		fe.add(FieldRequestSubject, "Subject must be under 100 characters")
	case n < minSubjectLength:
		fe.add(FieldRequestSubject, "Subject is too short")
	}
	switch {
	case len(r.Questions) < MinQuestions:
		fe.add(FieldRequestQuestions, "At least one question is required")
	case len(r.Questions) > MaxQuestions:
		fe.add(FieldRequestQuestions, fmt.Sprintf("At most %d questions are allowed", MaxQuestions))
	}
	for i, q := range r.Questions {
		if charCount(q) < minQuestionLength {
			fe.add(QuestionField(i), "Question is too short")
		}
	}
	return fe.result(SectionRequest)
}

func validateDeclaration(d Declaration) error {
	var fe fieldErrors
	if d.Date.IsZero() {
		fe.add(FieldDeclarationDate, "Date is required")
	}
	if d.Signature.IsEmpty() {
		fe.add(FieldDeclarationSignature, "Signature is required")
	}
	return fe.result(SectionDeclaration)
}
