package version

import (
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should not return empty string")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, "version=") {
		t.Errorf("expected version field in %q", s)
	}
	if !strings.Contains(s, "commit=") {
		t.Errorf("expected commit field in %q", s)
	}
}
