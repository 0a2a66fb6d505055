package files

import "testing"

func newTestValidator() *Validator {
	return NewValidator(
		[]string{"pdf", "png", "jpg", "jpeg", "gif"},
		[]string{"application/pdf", "image/png", "image/jpeg", "image/gif"},
	)
}

func TestValidate_Accepted(t *testing.T) {
	v := newTestValidator()

	verdict, ext := v.Validate("report.pdf", "application/pdf")
	if verdict != Accepted {
		t.Fatalf("Expected Accepted, got %v", verdict)
	}
	if ext != "pdf" {
		t.Errorf("Expected validated extension pdf, got %q", ext)
	}
}

func TestValidate_ExtensionCaseInsensitive(t *testing.T) {
	v := newTestValidator()

	verdict, ext := v.Validate("REPORT.PDF", "application/pdf")
	if verdict != Accepted {
		t.Fatalf("Expected Accepted for upper-case extension, got %v", verdict)
	}
	if ext != "pdf" {
		t.Errorf("Expected lower-cased extension pdf, got %q", ext)
	}
}

func TestValidate_RejectedExtension(t *testing.T) {
	v := newTestValidator()

	cases := []struct {
		filename string
		mime     string
	}{
		{"malware.exe", "application/pdf"}, // extension is checked before MIME
		{"noextension", "application/pdf"},
		{"script.sh", "image/png"},
		{"", "image/png"},
	}

	for _, tc := range cases {
		verdict, _ := v.Validate(tc.filename, tc.mime)
		if verdict != RejectedExtension {
			t.Errorf("Validate(%q, %q): expected RejectedExtension, got %v", tc.filename, tc.mime, verdict)
		}
	}
}

func TestValidate_RejectedMimeType(t *testing.T) {
	v := newTestValidator()

	verdict, _ := v.Validate("photo.png", "application/x-sh")
	if verdict != RejectedMimeType {
		t.Fatalf("Expected RejectedMimeType, got %v", verdict)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd.pdf", "passwd.pdf"},
		{`..\..\evil.pdf`, "evil.pdf"},
		{"my report.pdf", "my_report.pdf"},
		{"weird name!.png", "weird_name.png"},
		{"..", ""},
		{".hidden.png", "hidden.png"},
	}

	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
