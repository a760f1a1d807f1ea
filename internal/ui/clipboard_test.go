package ui

import (
	"errors"
	"testing"
)

func TestClipboardWriter_Detect(t *testing.T) {
	installed := map[string]bool{"xclip": true}
	cw := &ClipboardWriter{lookPath: func(name string) (string, error) {
		if installed[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}}

	cw.detect("linux")
	if !cw.IsAvailable() {
		t.Fatalf("expected clipboard available, got error %q", cw.Error())
	}
	if cw.tool.name != "xclip" {
		t.Errorf("tool = %q, want xclip", cw.tool.name)
	}
}

func TestClipboardWriter_Unavailable(t *testing.T) {
	cw := &ClipboardWriter{lookPath: func(string) (string, error) {
		return "", errors.New("not found")
	}}

	cw.detect("linux")
	if cw.IsAvailable() {
		t.Fatal("expected clipboard unavailable")
	}
	if want := "clipboard tool not found (install wl-copy or xclip or xsel)"; cw.Error() != want {
		t.Errorf("Error() = %q, want %q", cw.Error(), want)
	}
	if err := cw.Write("text"); err == nil {
		t.Error("Write() should fail when unavailable")
	}

	cw.detect("plan9")
	if cw.Error() != "unsupported platform: plan9" {
		t.Errorf("Error() = %q", cw.Error())
	}
}
