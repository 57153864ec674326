package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/alnah/go-rtiform"
	"github.com/alnah/go-rtiform/internal/config"
	"github.com/alnah/go-rtiform/internal/dateutil"
)

// Prompt messages, also used by tests to script answers.
const (
	promptName          = "Full name"
	promptAddress       = "Address"
	promptPlace         = "Place"
	promptEmail         = "Email (optional)"
	promptPhone         = "Phone (optional)"
	promptDistrict      = "District"
	promptBodyType      = "Local body type"
	promptBodyName      = "Local body"
	promptSubject       = "Subject matter"
	promptQuestion      = "Question %d"
	promptMoreQuestions = "Add another question?"
	promptDeclPlace     = "Place of declaration"
	promptDate          = "Date (YYYY-MM-DD)"
	promptSignature     = "Signature image path"
	promptNavigation    = "Next"
	promptRetryGenerate = "Try generating again?"
	promptRetryWrite    = "Try writing the document again?"
	promptOutputDir     = "Output directory"

	navContinue = "Continue"
	navBack     = "Back"

	// signatureClear removes a stored signature at the signature prompt.
	signatureClear = "-"
)

// runWizardCmd runs the interactive wizard and writes the document.
func runWizardCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseWizardFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	if err := finalizeConfig(cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, flags.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts, err := libraryOptions(cfg, logger, env)
	if err != nil {
		return err
	}
	renderer, err := rtiform.NewRenderer(cfg.Output.Format, cfg.Renderer.Backend, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			logger.Warn("closing renderer", zap.Error(err))
		}
	}()

	wiz, err := rtiform.NewWizard(opts...)
	if err != nil {
		return err
	}
	if !flags.noPrefill {
		prefillApplicant(wiz, cfg.Applicant)
	}

	st := newStyles(env.Stdout)
	sess := &wizardSession{wiz: wiz, prompt: env.prompter(), out: env.Stdout, st: st}
	doc, err := sess.run(ctx)
	if err != nil {
		return err
	}

	// Answers are saved before rendering so a failed write does not lose them.
	var saveErr error
	if flags.save != "" {
		if err := rtiform.SaveRecordFile(flags.save, wiz.Record()); err != nil {
			saveErr = fmt.Errorf("%w: %w", ErrWriteOutput, err)
			fmt.Fprintln(env.Stderr, st.errText.Render("Could not save answers: "+err.Error()))
		} else {
			fmt.Fprintf(env.Stdout, "Saved answers to %s\n", flags.save)
		}
	}

	if err := sess.write(ctx, renderer, doc, cfg.Output.Dir); err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, st.muted.Render("Run 'rtiform guide' to see how to submit it."))
	return saveErr
}

// write renders doc into dir. On failure the user may pick another
// directory and try again; the completed answers stay in memory.
func (s *wizardSession) write(ctx context.Context, r rtiform.Renderer, doc *rtiform.Document, dir string) error {
	for {
		path := filepath.Join(dir, doc.OutputName(r.Extension()))
		data, err := r.Render(ctx, doc)
		if err == nil {
			err = writeOutput(path, data)
		}
		if err == nil {
			fmt.Fprintf(s.out, "%s (%s)\n", s.st.success.Render("Created "+path), humanize.Bytes(uint64(len(data))))
			return nil
		}
		if ctx.Err() != nil {
			return err
		}

		fmt.Fprintln(s.out, s.st.errText.Render(err.Error()))
		retry, cerr := s.prompt.Confirm(ctx, ConfirmConfig{Message: promptRetryWrite})
		if cerr != nil {
			return cerr
		}
		if !retry {
			return err
		}
		if dir, cerr = s.prompt.Input(ctx, InputConfig{Message: promptOutputDir, Default: dir}); cerr != nil {
			return cerr
		}
	}
}

// prefillApplicant copies the configured applicant into the first section.
func prefillApplicant(w *rtiform.Wizard, a config.ApplicantConfig) {
	ed := w.Applicant()
	if a.Name != "" {
		ed.SetName(a.Name)
	}
	if a.Address != "" {
		ed.SetAddress(a.Address)
	}
	if a.Place != "" {
		ed.SetPlace(a.Place)
	}
	if a.Phone != "" {
		ed.SetPhone(a.Phone)
	}
}

// wizardSession drives a Wizard through the prompts.
type wizardSession struct {
	wiz    *rtiform.Wizard
	prompt PromptDriver
	out    io.Writer
	st     styles
}

// run asks each section until the wizard completes.
// A failed section is shown with its messages and asked again with the
// previous answers as defaults.
func (s *wizardSession) run(ctx context.Context) (*rtiform.Document, error) {
	for {
		section := s.wiz.Section()
		current, total := s.wiz.Progress()
		fmt.Fprintln(s.out, s.st.heading.Render(fmt.Sprintf("Step %d of %d: %s", current, total, section.Title())))

		if err := s.ask(ctx, section); err != nil {
			return nil, err
		}

		if section > rtiform.SectionApplicant {
			choice, err := s.prompt.Select(ctx, SelectConfig{
				Message: promptNavigation,
				Options: []string{navContinue, navBack},
				Default: navContinue,
			})
			if err != nil {
				return nil, err
			}
			if choice == navBack {
				if err := s.wiz.Retreat(); err != nil {
					return nil, err
				}
				continue
			}
		}

		doc, err := s.wiz.Advance(ctx)
		var verr *rtiform.ValidationError
		switch {
		case errors.As(err, &verr):
			s.printValidation(verr)
		case errors.Is(err, rtiform.ErrGeneration) && ctx.Err() == nil:
			// The wizard stays on the declaration section; asking it again
			// keeps every earlier answer.
			fmt.Fprintln(s.out, s.st.errText.Render(err.Error()))
			retry, cerr := s.prompt.Confirm(ctx, ConfirmConfig{Message: promptRetryGenerate, Default: true})
			if cerr != nil {
				return nil, cerr
			}
			if !retry {
				return nil, err
			}
		case err != nil:
			return nil, err
		case doc != nil:
			return doc, nil
		}
	}
}

func (s *wizardSession) ask(ctx context.Context, section rtiform.Section) error {
	switch section {
	case rtiform.SectionApplicant:
		return s.askApplicant(ctx)
	case rtiform.SectionAuthority:
		return s.askAuthority(ctx)
	case rtiform.SectionRequest:
		return s.askRequest(ctx)
	case rtiform.SectionDeclaration:
		return s.askDeclaration(ctx)
	default:
		return rtiform.ErrCompleted
	}
}

func (s *wizardSession) input(ctx context.Context, message, current string, set func(string)) error {
	v, err := s.prompt.Input(ctx, InputConfig{Message: message, Default: current})
	if err != nil {
		return err
	}
	set(v)
	return nil
}

func (s *wizardSession) askApplicant(ctx context.Context) error {
	ed := s.wiz.Applicant()
	if err := s.input(ctx, promptName, ed.Name(), ed.SetName); err != nil {
		return err
	}
	addr, err := s.prompt.TextArea(ctx, TextAreaConfig{Message: promptAddress, Default: ed.Address()})
	if err != nil {
		return err
	}
	ed.SetAddress(addr)
	if err := s.input(ctx, promptPlace, ed.Place(), ed.SetPlace); err != nil {
		return err
	}
	if err := s.input(ctx, promptEmail, ed.Email(), ed.SetEmail); err != nil {
		return err
	}
	return s.input(ctx, promptPhone, ed.Phone(), ed.SetPhone)
}

func (s *wizardSession) askAuthority(ctx context.Context) error {
	ed := s.wiz.Authority()
	dir := s.wiz.Directory()

	district, err := s.prompt.Select(ctx, SelectConfig{
		Message:  promptDistrict,
		Options:  dir.Districts(),
		Default:  ed.District(),
		PageSize: len(dir.Districts()),
	})
	if err != nil {
		return err
	}
	// Setting a district or type clears the local body, so only on change.
	if district != ed.District() {
		ed.SetDistrict(district)
	}

	bodyType, err := s.prompt.Select(ctx, SelectConfig{
		Message: promptBodyType,
		Options: dir.LocalBodyTypes(),
		Default: ed.LocalBodyType(),
	})
	if err != nil {
		return err
	}
	if bodyType != ed.LocalBodyType() {
		ed.SetLocalBodyType(bodyType)
	}

	name, err := s.prompt.Select(ctx, SelectConfig{
		Message: promptBodyName,
		Options: ed.Options(),
		Default: ed.LocalBodyName(),
	})
	if err != nil {
		return err
	}
	ed.SetLocalBodyName(name)
	return nil
}

func (s *wizardSession) askRequest(ctx context.Context) error {
	ed := s.wiz.Request()
	if err := s.input(ctx, promptSubject, ed.Subject(), ed.SetSubject); err != nil {
		return err
	}

	// Existing questions are edited in place; an empty answer removes one.
	for i := 0; i < ed.Len(); i++ {
		q, err := s.prompt.Input(ctx, InputConfig{
			Message: fmt.Sprintf(promptQuestion, i+1),
			Default: ed.Questions()[i],
			Help:    "leave empty to remove this question",
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(q) == "" && ed.Len() > rtiform.MinQuestions {
			if err := ed.RemoveQuestion(i); err != nil {
				return err
			}
			i--
			continue
		}
		if err := ed.SetQuestion(i, q); err != nil {
			return err
		}
	}

	for ed.Len() < rtiform.MaxQuestions {
		more, err := s.prompt.Confirm(ctx, ConfirmConfig{Message: promptMoreQuestions})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		i, err := ed.AddQuestion()
		if err != nil {
			return err
		}
		q, err := s.prompt.Input(ctx, InputConfig{Message: fmt.Sprintf(promptQuestion, i+1)})
		if err != nil {
			return err
		}
		if err := ed.SetQuestion(i, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *wizardSession) askDeclaration(ctx context.Context) error {
	ed := s.wiz.Declaration()

	place := ed.Place()
	if place == "" {
		place = s.wiz.Applicant().Place()
	}
	if err := s.input(ctx, promptDeclPlace, place, ed.SetPlace); err != nil {
		return err
	}

	raw, err := s.prompt.Input(ctx, InputConfig{
		Message: promptDate,
		Default: ed.Date().Format(time.DateOnly),
		Validator: func(v string) error {
			_, err := dateutil.ParseISO(strings.TrimSpace(v), time.UTC)
			return err
		},
	})
	if err != nil {
		return err
	}
	date, err := dateutil.ParseISO(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return err
	}
	ed.SetDate(date)

	return s.askSignature(ctx)
}

// askSignature loads a signature image until one is accepted or skipped.
func (s *wizardSession) askSignature(ctx context.Context) error {
	ed := s.wiz.Declaration()
	help := "PNG or JPEG; leave empty to skip"
	if ed.HasSignature() {
		help = "PNG or JPEG; leave empty to keep the current one, " + signatureClear + " to remove it"
	}

	for {
		path, err := s.prompt.Input(ctx, InputConfig{Message: promptSignature, Help: help})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		switch path {
		case "":
			return nil
		case signatureClear:
			ed.ClearSignature()
			return nil
		}

		var upload rtiform.UploadCapture
		err = upload.LoadFile(path)
		if err == nil {
			err = ed.Capture(&upload)
		}
		if err == nil {
			return nil
		}
		fmt.Fprintln(s.out, s.st.errText.Render("  "+err.Error()))
	}
}

func (s *wizardSession) printValidation(verr *rtiform.ValidationError) {
	fmt.Fprintln(s.out, s.st.errText.Render("Please fix the following:"))
	for _, f := range verr.Fields {
		fmt.Fprintf(s.out, "  %s %s\n", s.st.field.Render(f.Field+":"), s.st.errText.Render(f.Message))
	}
}
