package rtiform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-rtiform/internal/dateutil"
	"github.com/alnah/go-rtiform/internal/yamlutil"
)

// recordFile is the YAML shape of an application record.
type recordFile struct {
	Applicant   Applicant       `yaml:"applicant"`
	Authority   Authority       `yaml:"authority"`
	Request     Request         `yaml:"request"`
	Declaration declarationFile `yaml:"declaration"`
}

// declarationFile carries the date as YYYY-MM-DD and the signature as a
// data URL or a file path relative to the record.
type declarationFile struct {
	Place     string `yaml:"place"`
	Date      string `yaml:"date"`
	Signature string `yaml:"signature,omitempty"`
}

// LoadRecordFile reads a YAML application record. Unknown keys are rejected.
// A relative signature path is resolved against the record's directory.
func LoadRecordFile(path string) (*ApplicationRecord, error) {
	var rf recordFile
	if err := yamlutil.ReadFileStrict(path, &rf); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRecordParse, path, err)
	}
	return rf.record(filepath.Dir(path))
}

// ParseRecord decodes a YAML record held in memory. Relative signature
// paths are resolved against baseDir.
func ParseRecord(data []byte, baseDir string) (*ApplicationRecord, error) {
	var rf recordFile
	if err := yamlutil.UnmarshalStrict(data, &rf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordParse, err)
	}
	return rf.record(baseDir)
}

func (rf *recordFile) record(baseDir string) (*ApplicationRecord, error) {
	rec := &ApplicationRecord{
		Applicant: rf.Applicant,
		Authority: rf.Authority,
		Request:   rf.Request,
		Declaration: Declaration{
			Place: rf.Declaration.Place,
		},
	}

	if d := strings.TrimSpace(rf.Declaration.Date); d != "" {
		date, err := dateutil.ParseISO(d, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: declaration.date: %v", ErrRecordParse, err)
		}
		rec.Declaration.Date = date
	}

	sig, err := resolveSignature(strings.TrimSpace(rf.Declaration.Signature), baseDir)
	if err != nil {
		return nil, fmt.Errorf("declaration.signature: %w", err)
	}
	rec.Declaration.Signature = sig
	return rec, nil
}

func resolveSignature(ref, baseDir string) (SignatureAsset, error) {
	switch {
	case ref == "":
		return SignatureAsset{}, nil
	case strings.HasPrefix(ref, "data:"):
		return ParseDataURL(ref)
	case filepath.IsAbs(ref):
		return LoadSignatureFile(ref)
	default:
		return LoadSignatureFile(filepath.Join(baseDir, ref))
	}
}

// MarshalRecord encodes rec as YAML with the signature inlined as a data URL.
func MarshalRecord(rec *ApplicationRecord) ([]byte, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}
	rf := recordFile{
		Applicant: rec.Applicant,
		Authority: rec.Authority,
		Request:   rec.Request,
		Declaration: declarationFile{
			Place: rec.Declaration.Place,
		},
	}
	if !rec.Declaration.Date.IsZero() {
		rf.Declaration.Date = rec.Declaration.Date.Format(dateutil.ISOLayout)
	}
	if !rec.Declaration.Signature.IsEmpty() {
		rf.Declaration.Signature = rec.Declaration.Signature.DataURL()
	}
	return yamlutil.Marshal(rf)
}

// SaveRecordFile writes rec to path, readable only by the owner.
func SaveRecordFile(path string, rec *ApplicationRecord) error {
	data, err := MarshalRecord(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}
