package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/teamnotes/internal/app/system/htmlsanitize"
)

func TestSanitize_StripsScripts(t *testing.T) {
	in := `<p>hello</p><script>alert("x")</script>`
	out := htmlsanitize.Sanitize(in)

	if strings.Contains(out, "<script") {
		t.Errorf("script survived: %q", out)
	}
	if !strings.Contains(out, "<p>hello</p>") {
		t.Errorf("formatting markup should survive: %q", out)
	}
}

func TestSanitize_StripsEventHandlers(t *testing.T) {
	out := htmlsanitize.Sanitize(`<a href="javascript:evil()" onclick="evil()">link</a>`)
	if strings.Contains(out, "javascript:") || strings.Contains(out, "onclick") {
		t.Errorf("unsafe attributes survived: %q", out)
	}
}

func TestStrict(t *testing.T) {
	out := htmlsanitize.Strict("  <b>Team</b> Notes  ")
	if out != "Team Notes" {
		t.Errorf("got %q, want %q", out, "Team Notes")
	}
}
