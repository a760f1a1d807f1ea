//go:build !windows

package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"golang.org/x/term"
)

func TestExecutePasswordCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
		wantErr bool
	}{
		{"trims output", "echo  secret ", "secret", false},
		{"empty command", "   ", "", true},
		{"empty output", "true", "", true},
		{"failing command", "false", "", true},
		{"missing binary", "sqlide-no-such-binary", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExecutePasswordCommand(context.Background(), tt.command)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExecutePasswordCommand(%q) error = %v, wantErr %v", tt.command, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExecutePasswordCommand(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestPromptPassword_NoTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}
	_, err := PromptPassword("Password: ")
	if !errors.Is(err, ErrNoTerminal) {
		t.Errorf("PromptPassword() error = %v, want ErrNoTerminal", err)
	}
}
