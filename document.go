package rtiform

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/alnah/go-rtiform/internal/layout"
)

// Page geometry in millimetres (A4 portrait).
const (
	PageWidth    = 210.0
	PageHeight   = 297.0
	MarginLeft   = 20.0
	MarginTop    = 20.0
	MarginBottom = 20.0
	UsableBottom = PageHeight - MarginBottom
)

// Font is a core font face at a point size.
type Font = layout.Font

// Measurer reports text widths in millimetres.
type Measurer = layout.Measurer

// Font styles.
const (
	StyleRegular = layout.StyleRegular
	StyleBold    = layout.StyleBold
	StyleItalic  = layout.StyleItalic
)

// InstructionKind distinguishes text runs from image placements.
type InstructionKind int

const (
	InstructionText InstructionKind = iota
	InstructionImage
)

func (k InstructionKind) String() string {
	if k == InstructionImage {
		return "image"
	}
	return "text"
}

// Align records how a text run was positioned. X is always the left edge;
// centred runs have X computed from their measured width.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Instruction is one positioned element on a page.
//
// Text runs use Text, Font, Align, X and the baseline Y. Image placements
// use Image, X, Y (top edge), W and H.
type Instruction struct {
	Kind  InstructionKind
	Text  string
	Font  Font
	Align Align
	X     float64
	Y     float64
	Image SignatureAsset
	W     float64
	H     float64
}

// Page is a numbered list of instructions. Numbers start at 1.
type Page struct {
	Number       int
	Instructions []Instruction
}

// Document is a laid-out application ready for rendering.
type Document struct {
	Pages     []Page
	FileName  string
	Title     string
	Subject   string
	Author    string
	CreatedAt time.Time
}

// OutputName returns FileName with ext appended ("." added when missing).
func (d *Document) OutputName(ext string) string {
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return d.FileName + ext
}

// Fingerprint returns the hex BLAKE2b-256 digest of the document's layout
// and metadata. Equal documents have equal fingerprints.
func (d *Document) Fingerprint() string {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	writeString(h, d.FileName)
	writeString(h, d.Title)
	writeString(h, d.Subject)
	writeString(h, d.Author)
	writeInt(h, d.CreatedAt.UTC().Unix())
	writeInt(h, int64(len(d.Pages)))
	for _, p := range d.Pages {
		writeInt(h, int64(p.Number))
		writeInt(h, int64(len(p.Instructions)))
		for _, in := range p.Instructions {
			writeInt(h, int64(in.Kind))
			writeString(h, in.Text)
			writeString(h, in.Font.Family)
			writeString(h, in.Font.Style)
			writeFloat(h, in.Font.Size)
			writeInt(h, int64(in.Align))
			writeFloat(h, in.X)
			writeFloat(h, in.Y)
			writeString(h, string(in.Image.Format))
			writeBytes(h, in.Image.Data)
			writeFloat(h, in.W)
			writeFloat(h, in.H)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Length-prefixed fields keep adjacent values from colliding.
func writeBytes(h hash.Hash, b []byte) {
	writeInt(h, int64(len(b)))
	h.Write(b)
}

func writeString(h hash.Hash, s string) { writeBytes(h, []byte(s)) }

func writeInt(h hash.Hash, v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v)) // #nosec G115 -- bit pattern only
	h.Write(buf[:])
}

func writeFloat(h hash.Hash, v float64) {
	writeInt(h, int64(math.Float64bits(v))) // #nosec G115 -- bit pattern only
}
