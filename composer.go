package rtiform

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-rtiform/internal/dateutil"
	"github.com/alnah/go-rtiform/internal/fileutil"
	"github.com/alnah/go-rtiform/internal/layout"
)

// Fixed template text.
const (
	FormTitle        = "FORM A"
	FormHeading      = "Application for Information under Section 6(1) of the RTI Act, 2005"
	AddresseeOfficer = "The State Public Information Officer,"
	FeeSentence      = "Enclosed an amount of Rs. 10/- by way of cash/court fee stamp/DD/Chalan."
	StatutoryText    = "I state that the information sought does not fall within the restrictions " +
		"contained in Section 8 and 9 of the RTI Act and to the best of my knowledge it pertains to your office."
	ClosingSalutation = "Yours faithfully,"

	// FileNamePrefix starts every output file name.
	FileNamePrefix = "RTI_Application_"
)

const fontFamily = "Helvetica"

var (
	fontTitle     = Font{Family: fontFamily, Style: StyleBold, Size: 16}
	fontLabel     = Font{Family: fontFamily, Style: StyleBold, Size: 12}
	fontBody      = Font{Family: fontFamily, Style: StyleRegular, Size: 12}
	fontStatutory = Font{Family: fontFamily, Style: StyleItalic, Size: 10}
)

// Line heights per font size.
const (
	lineHeight12 = 6.0
	lineHeight10 = 5.0
)

// Column positions and wrap widths.
const (
	centerX         = PageWidth / 2
	labelX          = MarginLeft
	subLabelX       = MarginLeft + 5
	valueX          = MarginLeft + 55
	subjectX        = MarginLeft + 45
	questionX       = MarginLeft + 10
	closingRightX   = 140.0
	addresseeWidth  = 170.0
	valueWidth      = 120.0
	subjectWidth    = 130.0
	questionWidth   = 150.0
	feeWidth        = 165.0
	statutoryWidth  = 170.0
	statutoryGap    = 10.0 // two lines advance 20, as on the printed form
	signatureWidth  = 40.0
	signatureHeight = 20.0
)

// Composer lays out a completed ApplicationRecord as a paginated Document.
// It reads no clock and keeps no state between calls, so equal records
// give equal documents. Safe for concurrent use.
type Composer struct {
	logger     *zap.Logger
	directory  *Directory
	measurer   Measurer
	dateFormat string
}

// NewComposer creates a Composer. It fails when the date format is invalid
// or the jurisdiction directory cannot be loaded.
func NewComposer(opts ...Option) (*Composer, error) {
	s := newSettings(opts)
	return newComposer(s)
}

func newComposer(s *settings) (*Composer, error) {
	if _, err := dateutil.ParseDateFormat(s.dateFormat); err != nil {
		return nil, err
	}
	dir, err := s.resolveDirectory()
	if err != nil {
		return nil, err
	}
	return &Composer{
		logger:     s.logger,
		directory:  dir,
		measurer:   s.measurer,
		dateFormat: s.dateFormat,
	}, nil
}

// Directory returns the jurisdiction directory records are validated against.
func (c *Composer) Directory() *Directory { return c.directory }

// Compose validates rec and lays it out. An incomplete record fails with an
// error wrapping both ErrIncompleteRecord and the *ValidationError.
func (c *Composer) Compose(rec *ApplicationRecord) (*Document, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}
	if err := ValidateRecord(rec, c.directory); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteRecord, err)
	}

	date, err := dateutil.Format(rec.Declaration.Date, c.dateFormat)
	if err != nil {
		return nil, err
	}

	name := collapse(rec.Applicant.Name)
	p := newPager()

	p.place(c.centred(FormTitle, fontTitle, 10))
	p.place(c.centred(FormHeading, fontLabel, 15))
	p.place(c.addressee(rec.Authority))
	p.place(c.labelled("1. Name of the Applicant:", labelX, name, valueX, valueWidth))
	p.place(c.labelled("2. Address:", labelX, strings.TrimSpace(rec.Applicant.Address), valueX, valueWidth))
	p.place(single(text("3. Particulars of Information Required:", fontLabel, labelX), 10))
	p.place(c.labelled("(i) Subject Matter:", subLabelX, strings.TrimSpace(rec.Request.Subject), subjectX, subjectWidth))
	p.place(single(text("(ii) Specific Questions:", fontLabel, subLabelX), 8))
	for i, q := range rec.Request.Questions {
		item := strconv.Itoa(i+1) + ". " + strings.TrimSpace(q)
		p.place(c.paragraph(item, fontBody, questionX, questionWidth, lineHeight12, 2))
	}
	p.skip(10)
	p.place(c.fee())
	p.place(c.paragraph(StatutoryText, fontStatutory, labelX, statutoryWidth, lineHeight10, statutoryGap))
	p.place(c.closing(rec.Declaration, date, name))

	doc := &Document{
		Pages:     p.pages,
		FileName:  FileNamePrefix + fileutil.ReplaceWhitespace(name, "_"),
		Title:     FormHeading,
		Subject:   collapse(rec.Request.Subject),
		Author:    name,
		CreatedAt: rec.Declaration.Date,
	}
	c.logger.Debug("document composed",
		zap.Int("pages", len(doc.Pages)),
		zap.Int("questions", len(rec.Request.Questions)),
		zap.String("file", doc.FileName))
	return doc, nil
}

func (c *Composer) wrap(s string, font Font, width float64) []string {
	return layout.Wrap(c.measurer, s, font, width)
}

func (c *Composer) centred(s string, font Font, advance float64) block {
	w := c.measurer.Width(s, font)
	in := text(s, font, centerX-w/2)
	in.Align = AlignCenter
	return single(in, advance)
}

func (c *Composer) addressee(a Authority) block {
	b := block{
		{runs: []Instruction{text("To,", fontLabel, labelX)}, advance: 7},
		{runs: []Instruction{text(AddresseeOfficer, fontBody, labelX)}, advance: lineHeight12},
	}
	body := collapse(a.LocalBodyName) + ", " + collapse(a.LocalBodyType) + ","
	for _, line := range c.wrap(body, fontBody, addresseeWidth) {
		b = append(b, row{runs: []Instruction{text(line, fontBody, labelX)}, advance: lineHeight12})
	}
	district := collapse(a.District) + " District, " + c.directory.State() + "."
	return append(b, row{runs: []Instruction{text(district, fontBody, labelX)}, advance: 15})
}

// labelled sets a bold label with a wrapped value beside it.
// Advances lines×6+4.
func (c *Composer) labelled(label string, lx float64, value string, vx, width float64) block {
	lines := c.wrap(value, fontBody, width)
	b := make(block, len(lines))
	for i, line := range lines {
		b[i] = row{runs: []Instruction{text(line, fontBody, vx)}, advance: lineHeight12}
	}
	b[0].runs = append([]Instruction{text(label, fontLabel, lx)}, b[0].runs...)
	b[len(b)-1].advance += 4
	return b
}

// paragraph wraps s at x. Advances lines×lineHeight+gap.
func (c *Composer) paragraph(s string, font Font, x, width, lineHeight, gap float64) block {
	lines := c.wrap(s, font, width)
	b := make(block, len(lines))
	for i, line := range lines {
		b[i] = row{runs: []Instruction{text(line, font, x)}, advance: lineHeight}
	}
	b[len(b)-1].advance += gap
	return b
}

func (c *Composer) fee() block {
	b := block{{runs: []Instruction{text("4. Application Fee Details:", fontLabel, labelX)}, advance: 7}}
	return append(b, c.paragraph(FeeSentence, fontBody, subLabelX, feeWidth, lineHeight12, 9)...)
}

// closing is the place/date/signature block. Its height is 32.
func (c *Composer) closing(d Declaration, date, name string) block {
	dateRow := []Instruction{text("Date: "+date, fontBody, labelX)}
	if img, ok := c.signature(d.Signature); ok {
		dateRow = append(dateRow, img)
	}
	return block{
		{runs: []Instruction{
			text("Place: "+collapse(d.Place), fontBody, labelX),
			text(ClosingSalutation, fontBody, closingRightX),
		}, advance: 7},
		{runs: dateRow, advance: 25},
		{runs: []Instruction{text("("+name+")", fontBody, closingRightX)}},
	}
}

// signature returns the image placement, or false when the asset is empty
// or does not decode. Undecodable data is logged and skipped.
func (c *Composer) signature(sig SignatureAsset) (Instruction, bool) {
	if sig.IsEmpty() {
		return Instruction{}, false
	}
	if err := sig.Validate(); err != nil {
		c.logger.Warn("signature image skipped", zap.Error(err))
		return Instruction{}, false
	}
	return Instruction{
		Kind:  InstructionImage,
		Image: sig.Clone(),
		X:     closingRightX,
		W:     signatureWidth,
		H:     signatureHeight,
	}, true
}

// row is a set of instructions sharing one baseline. Instruction Y values
// are offsets from the row cursor.
type row struct {
	runs    []Instruction
	advance float64
}

// block is a group of rows kept on one page when it fits.
type block []row

func (b block) height() float64 {
	var h float64
	for _, r := range b {
		h += r.advance
	}
	return h
}

// collapse trims s and joins its whitespace runs with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func single(in Instruction, advance float64) block {
	return block{{runs: []Instruction{in}, advance: advance}}
}

func text(s string, font Font, x float64) Instruction {
	return Instruction{Kind: InstructionText, Text: s, Font: font, X: x}
}

// pager places blocks top to bottom and breaks pages at UsableBottom.
type pager struct {
	pages  []Page
	cursor float64
}

func newPager() *pager {
	p := &pager{}
	p.newPage()
	return p
}

func (p *pager) newPage() {
	p.pages = append(p.pages, Page{Number: len(p.pages) + 1})
	p.cursor = MarginTop
}

// fits breaks the page when h would cross the usable bottom. A fresh page
// always accepts the content.
func (p *pager) fits(h float64) {
	if p.cursor+h > UsableBottom && p.cursor > MarginTop {
		p.newPage()
	}
}

// place emits b on the current page or a new one. A block taller than the
// usable span is split between rows, each row checked on its own.
func (p *pager) place(b block) {
	if h := b.height(); h <= UsableBottom-MarginTop {
		p.fits(h)
		for _, r := range b {
			p.emit(r)
		}
		return
	}
	for _, r := range b {
		p.fits(r.advance)
		p.emit(r)
	}
}

func (p *pager) emit(r row) {
	page := &p.pages[len(p.pages)-1]
	for _, in := range r.runs {
		in.Y += p.cursor
		page.Instructions = append(page.Instructions, in)
	}
	p.cursor += r.advance
}

func (p *pager) skip(h float64) {
	p.cursor += h
}
