package rtiform

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Wizard owns one ApplicationRecord and walks it through the four sections.
// Each forward step validates only the current section; the step out of the
// declaration section composes the document.
//
// A Wizard is not safe for concurrent use.
type Wizard struct {
	logger    *zap.Logger
	clock     func() time.Time
	composer  *Composer
	directory *Directory

	sessionID string
	section   Section
	record    *ApplicationRecord
	options   []string
	lastErr   *ValidationError
	document  *Document
}

// NewWizard creates a wizard at SectionApplicant with a default record.
func NewWizard(opts ...Option) (*Wizard, error) {
	s := newSettings(opts)
	composer, err := newComposer(s)
	if err != nil {
		return nil, err
	}
	w := &Wizard{
		logger:    s.logger,
		clock:     s.clock,
		composer:  composer,
		directory: composer.directory,
	}
	w.start()
	return w, nil
}

func (w *Wizard) start() {
	w.sessionID = uuid.NewString()
	w.section = SectionApplicant
	w.record = NewRecord(w.clock())
	w.options = nil
	w.lastErr = nil
	w.document = nil
	w.logger.Info("session started", zap.String("session", w.sessionID))
}

// SessionID identifies the current draft in logs.
func (w *Wizard) SessionID() string { return w.sessionID }

// Section returns the current section.
func (w *Wizard) Section() Section { return w.section }

// Progress returns the current step and the number of editable sections.
// Completed reports (SectionCount, SectionCount).
func (w *Wizard) Progress() (current, total int) {
	return min(int(w.section), SectionCount), SectionCount
}

// Record returns a copy of the record.
func (w *Wizard) Record() *ApplicationRecord { return w.record.Clone() }

// Directory returns the jurisdiction directory used for options and validation.
func (w *Wizard) Directory() *Directory { return w.directory }

// Errors returns the failure from the last Advance, or nil.
func (w *Wizard) Errors() *ValidationError { return w.lastErr }

// Validate checks the current section without moving.
func (w *Wizard) Validate() error {
	return ValidateSection(w.record, w.section, w.directory)
}

// Document returns the composed document once the wizard is Completed.
func (w *Wizard) Document() (*Document, error) {
	if w.section != SectionCompleted {
		return nil, ErrNotCompleted
	}
	return w.document, nil
}

// LocalBodyOptions returns the names selectable for the current district
// and local-body type.
func (w *Wizard) LocalBodyOptions() []string { return slices.Clone(w.options) }

// Advance validates the current section and moves forward. From the
// declaration section it composes the document and returns it.
//
// Validation failures return a *ValidationError and leave the wizard where
// it is. Composition failures, panics included, wrap ErrGeneration and keep
// the wizard in SectionDeclaration.
func (w *Wizard) Advance(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.section == SectionCompleted {
		return nil, ErrCompleted
	}

	if err := w.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			w.lastErr = verr
			w.logger.Debug("section invalid",
				zap.String("session", w.sessionID),
				zap.Stringer("section", w.section),
				zap.Int("fields", len(verr.Fields)))
		}
		return nil, err
	}
	w.lastErr = nil

	if w.section == SectionDeclaration {
		return w.finish()
	}

	from := w.section
	w.section++
	if w.section == SectionAuthority {
		w.refreshOptions()
	}
	w.logger.Debug("section advanced",
		zap.String("session", w.sessionID),
		zap.Stringer("from", from),
		zap.Stringer("to", w.section))
	return nil, nil
}

func (w *Wizard) finish() (*Document, error) {
	start := w.clock()
	doc, err := w.compose()
	if err != nil {
		w.logger.Error("document generation failed",
			zap.String("session", w.sessionID),
			zap.Error(err))
		return nil, err
	}
	w.document = doc
	w.section = SectionCompleted
	w.logger.Info("document generated",
		zap.String("session", w.sessionID),
		zap.Int("pages", len(doc.Pages)),
		zap.Duration("duration", w.clock().Sub(start)))
	return doc, nil
}

func (w *Wizard) compose() (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrGeneration, r)
		}
	}()
	doc, err = w.composer.Compose(w.record.Clone())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return doc, nil
}

// Retreat moves back one section without validating or discarding data.
func (w *Wizard) Retreat() error {
	switch w.section {
	case SectionApplicant:
		return ErrAtFirstSection
	case SectionCompleted:
		return ErrCompleted
	}
	w.section--
	w.lastErr = nil
	if w.section == SectionAuthority {
		w.refreshOptions()
	}
	return nil
}

// Reset starts a new draft. It is only allowed once Completed.
func (w *Wizard) Reset() error {
	if w.section != SectionCompleted {
		return ErrNotCompleted
	}
	w.start()
	return nil
}

// refreshOptions re-derives the local-body names for the current pair.
func (w *Wizard) refreshOptions() {
	a := w.record.Authority
	names, found := w.directory.Options(a.District, a.LocalBodyType)
	w.options = names
	if !found && a.District != "" && a.LocalBodyType != "" {
		w.logger.Debug("local body lookup miss",
			zap.String("district", a.District),
			zap.String("localBodyType", a.LocalBodyType))
	}
}

// Applicant returns the editor for SectionApplicant fields.
func (w *Wizard) Applicant() ApplicantEditor { return ApplicantEditor{w: w} }

// Authority returns the editor for SectionAuthority fields.
func (w *Wizard) Authority() AuthorityEditor { return AuthorityEditor{w: w} }

// Request returns the editor for SectionRequest fields.
func (w *Wizard) Request() RequestEditor { return RequestEditor{w: w} }

// Declaration returns the editor for SectionDeclaration fields.
func (w *Wizard) Declaration() DeclarationEditor { return DeclarationEditor{w: w} }
