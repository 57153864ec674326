// Package rtiform drafts Right to Information applications (RTI Act 2005,
// Section 6(1), "FORM A") addressed to Kerala local bodies.
//
// # Quick Start
//
// Walk a Wizard through its four sections, then render the document:
//
//	w, err := rtiform.NewWizard()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a := w.Applicant()
//	a.SetName("Anitha Raghavan")
//	a.SetAddress("TC 12/345, Pattom, Thiruvananthapuram")
//	a.SetPlace("Thiruvananthapuram")
//	if _, err := w.Advance(ctx); err != nil {
//	    // *rtiform.ValidationError lists the failing fields
//	}
//	// ... authority, request and declaration sections ...
//	doc, err := w.Advance(ctx) // composes on the last section
//
//	r := rtiform.NewPDFRenderer()
//	pdf, err := r.Render(ctx, doc)
//	os.WriteFile(doc.OutputName(r.Extension()), pdf, 0o600)
//
// # Sections
//
// The wizard moves through SectionApplicant, SectionAuthority,
// SectionRequest and SectionDeclaration, then SectionCompleted. Advance
// validates only the current section; Retreat moves back without
// validating; Reset starts a new draft once completed. Each section is
// edited through its editor (Applicant, Authority, Request, Declaration).
//
// Choosing a district or local-body type clears the local-body name and
// re-derives the selectable names from the jurisdiction Directory. Pairs
// missing from the table offer two placeholder names.
//
// # Composition
//
// Composer.Compose lays a complete record onto A4 pages in millimetres
// using Helvetica core metrics. Blocks that would cross the 277 mm line
// move to a new page; blocks taller than a page split between lines. The
// result is deterministic: equal records give equal documents and equal
// Document.Fingerprint values.
//
// # Rendering
//
// Three renderers implement Renderer:
//
//   - PDFRenderer writes PDF directly with fpdf (no browser)
//   - HTMLRenderer writes a standalone page from the document template
//   - ChromeRenderer prints that page to PDF in headless Chrome
//
// For batch work, RendererPool bounds the number of live renderers.
//
// # Signatures
//
// A signature is a PNG or JPEG SignatureAsset. SignatureCapture sources
// include UploadCapture for photographed signatures and StrokePad for
// freehand strokes. ParseDataURL and LoadSignatureFile read existing images.
//
// # Record Files
//
// LoadRecordFile and SaveRecordFile read and write applications as YAML,
// with the signature given as a path or a data URL.
package rtiform
