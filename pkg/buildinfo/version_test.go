package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", got)
	}
}
