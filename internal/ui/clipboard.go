package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"golang.design/x/clipboard"
)

// clipboardTool is an external command that reads clipboard text on stdin.
type clipboardTool struct {
	name string
	args []string
}

// clipboardTools lists candidates per platform, in preference order.
var clipboardTools = map[string][]clipboardTool{
	"darwin": {{name: "pbcopy"}},
	"linux": {
		{name: "wl-copy"},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	},
	"windows": {{name: "clip"}},
}

// ClipboardWriter provides cross-platform clipboard access with graceful degradation.
// The native clipboard is used when it initializes, external tools otherwise.
type ClipboardWriter struct {
	native bool
	tool   *clipboardTool
	errMsg string

	lookPath func(string) (string, error)
}

// NewClipboardWriter creates a new ClipboardWriter and checks availability.
func NewClipboardWriter() *ClipboardWriter {
	cw := &ClipboardWriter{lookPath: exec.LookPath}
	if err := clipboard.Init(); err == nil {
		cw.native = true
		return cw
	}
	cw.detect(runtime.GOOS)
	return cw
}

// detect picks the first installed tool for the platform.
func (cw *ClipboardWriter) detect(goos string) {
	tools, ok := clipboardTools[goos]
	if !ok {
		cw.errMsg = fmt.Sprintf("unsupported platform: %s", goos)
		return
	}
	names := make([]string, len(tools))
	for i := range tools {
		if _, err := cw.lookPath(tools[i].name); err == nil {
			cw.tool = &tools[i]
			return
		}
		names[i] = tools[i].name
	}
	cw.errMsg = fmt.Sprintf("clipboard tool not found (install %s)", strings.Join(names, " or "))
}

// IsAvailable returns whether clipboard operations are supported.
func (cw *ClipboardWriter) IsAvailable() bool {
	return cw.native || cw.tool != nil
}

// Error returns the reason clipboard is unavailable.
func (cw *ClipboardWriter) Error() string {
	return cw.errMsg
}

// Write copies text to the system clipboard.
func (cw *ClipboardWriter) Write(text string) error {
	if cw.native {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}
	if cw.tool == nil {
		return fmt.Errorf("clipboard unavailable: %s", cw.errMsg)
	}

	cmd := exec.Command(cw.tool.name, cw.tool.args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w (%s)", cw.tool.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
