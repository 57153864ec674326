package rtiform

import (
	"slices"
	"time"

	"github.com/alnah/go-rtiform/internal/dateutil"
)

// ApplicantEditor edits the applicant section of a Wizard's record.
type ApplicantEditor struct{ w *Wizard }

func (e ApplicantEditor) Name() string        { return e.w.record.Applicant.Name }
func (e ApplicantEditor) SetName(v string)    { e.w.record.Applicant.Name = v }
func (e ApplicantEditor) Address() string     { return e.w.record.Applicant.Address }
func (e ApplicantEditor) SetAddress(v string) { e.w.record.Applicant.Address = v }
func (e ApplicantEditor) Place() string       { return e.w.record.Applicant.Place }
func (e ApplicantEditor) SetPlace(v string)   { e.w.record.Applicant.Place = v }
func (e ApplicantEditor) Email() string       { return e.w.record.Applicant.Email }
func (e ApplicantEditor) SetEmail(v string)   { e.w.record.Applicant.Email = v }
func (e ApplicantEditor) Phone() string       { return e.w.record.Applicant.Phone }
func (e ApplicantEditor) SetPhone(v string)   { e.w.record.Applicant.Phone = v }

// AuthorityEditor edits the authority section. Changing the district or the
// local-body type clears the selected name and re-derives the options.
type AuthorityEditor struct{ w *Wizard }

func (e AuthorityEditor) District() string      { return e.w.record.Authority.District }
func (e AuthorityEditor) LocalBodyType() string { return e.w.record.Authority.LocalBodyType }
func (e AuthorityEditor) LocalBodyName() string { return e.w.record.Authority.LocalBodyName }

// Options returns the names selectable for the current pair.
func (e AuthorityEditor) Options() []string { return e.w.LocalBodyOptions() }

// SetDistrict selects a district.
func (e AuthorityEditor) SetDistrict(v string) {
	e.w.record.Authority.District = v
	e.w.record.Authority.LocalBodyName = ""
	e.w.refreshOptions()
}

// SetLocalBodyType selects a local-body type.
func (e AuthorityEditor) SetLocalBodyType(v string) {
	e.w.record.Authority.LocalBodyType = v
	e.w.record.Authority.LocalBodyName = ""
	e.w.refreshOptions()
}

// SetLocalBodyName selects a name. Names outside Options fail validation.
func (e AuthorityEditor) SetLocalBodyName(v string) {
	e.w.record.Authority.LocalBodyName = v
}

// RequestEditor edits the subject and the 1..10 question list.
type RequestEditor struct{ w *Wizard }

func (e RequestEditor) Subject() string     { return e.w.record.Request.Subject }
func (e RequestEditor) SetSubject(v string) { e.w.record.Request.Subject = v }

// Questions returns a copy of the questions in order.
func (e RequestEditor) Questions() []string { return slices.Clone(e.w.record.Request.Questions) }

// Len returns the number of questions.
func (e RequestEditor) Len() int { return len(e.w.record.Request.Questions) }

// SetQuestion replaces the question at zero-based index i.
func (e RequestEditor) SetQuestion(i int, v string) error {
	if i < 0 || i >= e.Len() {
		return ErrQuestionIndex
	}
	e.w.record.Request.Questions[i] = v
	return nil
}

// AddQuestion appends an empty question and returns its index.
func (e RequestEditor) AddQuestion() (int, error) {
	if e.Len() >= MaxQuestions {
		return 0, ErrTooManyQuestions
	}
	e.w.record.Request.Questions = append(e.w.record.Request.Questions, "")
	return e.Len() - 1, nil
}

// RemoveQuestion deletes the question at index i. The last question stays.
func (e RequestEditor) RemoveQuestion(i int) error {
	if i < 0 || i >= e.Len() {
		return ErrQuestionIndex
	}
	if e.Len() <= MinQuestions {
		return ErrLastQuestion
	}
	e.w.record.Request.Questions = slices.Delete(e.w.record.Request.Questions, i, i+1)
	return nil
}

// DeclarationEditor edits the place, date and signature.
type DeclarationEditor struct{ w *Wizard }

func (e DeclarationEditor) Place() string     { return e.w.record.Declaration.Place }
func (e DeclarationEditor) SetPlace(v string) { e.w.record.Declaration.Place = v }
func (e DeclarationEditor) Date() time.Time   { return e.w.record.Declaration.Date }

// SetDate stores the calendar day of t.
func (e DeclarationEditor) SetDate(t time.Time) {
	e.w.record.Declaration.Date = dateutil.CalendarDate(t)
}

// Signature returns a copy of the stored signature.
func (e DeclarationEditor) Signature() SignatureAsset {
	return e.w.record.Declaration.Signature.Clone()
}

// HasSignature reports whether a signature is stored.
func (e DeclarationEditor) HasSignature() bool {
	return !e.w.record.Declaration.Signature.IsEmpty()
}

// SetSignature stores a copy of asset after checking that it decodes.
// An unset Format is detected from the data.
func (e DeclarationEditor) SetSignature(asset SignatureAsset) error {
	if asset.Format == "" {
		detected, err := NewSignatureAsset(asset.Data)
		if err != nil {
			return err
		}
		asset.Format = detected.Format
	}
	if err := asset.Validate(); err != nil {
		return err
	}
	e.w.record.Declaration.Signature = asset.Clone()
	return nil
}

// ClearSignature removes the stored signature.
func (e DeclarationEditor) ClearSignature() {
	e.w.record.Declaration.Signature = SignatureAsset{}
}

// Capture stores the image produced by c.
func (e DeclarationEditor) Capture(c SignatureCapture) error {
	asset, err := c.ToImage()
	if err != nil {
		return err
	}
	return e.SetSignature(asset)
}
