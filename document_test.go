package rtiform

import (
	"testing"
)

func TestDocument_Fingerprint(t *testing.T) {
	t.Parallel()

	base := composeTestDocument(t, nil)
	fp := base.Fingerprint()
	if len(fp) != 64 {
		t.Fatalf("Fingerprint() length = %d, want 64 hex characters", len(fp))
	}

	tests := []struct {
		name   string
		modify func(*ApplicationRecord)
	}{
		{"question text", func(r *ApplicationRecord) { r.Request.Questions[0] = "A different question entirely" }},
		{"declaration place", func(r *ApplicationRecord) { r.Declaration.Place = "Kochi" }},
		{"signature", func(r *ApplicationRecord) { r.Declaration.Signature = SignatureAsset{Data: encodePNG(t, 9, 4), Format: ImagePNG} }},
		{"date", func(r *ApplicationRecord) { r.Declaration.Date = r.Declaration.Date.AddDate(0, 0, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			changed := composeTestDocument(t, tt.modify)
			if changed.Fingerprint() == fp {
				t.Errorf("changing the %s did not change the fingerprint", tt.name)
			}
		})
	}
}

func TestDocument_FingerprintFieldBoundaries(t *testing.T) {
	t.Parallel()

	a := &Document{Title: "ab", Subject: "c"}
	b := &Document{Title: "a", Subject: "bc"}
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("adjacent fields should not collide")
	}
}

func TestDocument_OutputName(t *testing.T) {
	t.Parallel()

	d := &Document{FileName: "RTI_Application_Anu"}
	tests := []struct {
		ext  string
		want string
	}{
		{".pdf", "RTI_Application_Anu.pdf"},
		{"html", "RTI_Application_Anu.html"},
		{"", "RTI_Application_Anu"},
	}
	for _, tt := range tests {
		if got := d.OutputName(tt.ext); got != tt.want {
			t.Errorf("OutputName(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestSection_TitleAndString(t *testing.T) {
	t.Parallel()

	want := map[Section][2]string{
		SectionApplicant:   {"applicant", "Applicant Details"},
		SectionAuthority:   {"authority", "Authority Selection"},
		SectionRequest:     {"request", "RTI Questions"},
		SectionDeclaration: {"declaration", "Finalize & Sign"},
		Section(99):        {"unknown", ""},
	}
	for s, w := range want {
		if s.String() != w[0] || s.Title() != w[1] {
			t.Errorf("Section(%d) = %q/%q, want %q/%q", int(s), s.String(), s.Title(), w[0], w[1])
		}
	}
}

func TestRecord_Clone(t *testing.T) {
	t.Parallel()

	rec := completeRecord(t)
	c := rec.Clone()
	c.Request.Questions[0] = "changed question"
	c.Declaration.Signature.Data[0] = 0

	if rec.Request.Questions[0] == "changed question" {
		t.Error("Clone() shares the question slice")
	}
	if rec.Declaration.Signature.Data[0] == 0 {
		t.Error("Clone() shares signature bytes")
	}
	if (*ApplicationRecord)(nil).Clone() != nil {
		t.Error("nil Clone() should be nil")
	}
}
