package keymap

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/willibrandon/sqlide/internal/logger"
)

// ErrUnknownKeymap is returned for a keymap name that no source defines.
var ErrUnknownKeymap = errors.New("unknown keymap")

//go:embed keymaps/*.toml
var builtin embed.FS

// fileBinding is a binding as written in SQL IDE config files.
type fileBinding struct {
	Keys       string `toml:"keys"`
	Action     string `toml:"action"`
	KeyDisplay string `toml:"key_display,omitempty"`
}

// configFile is the keymaps part of an SQL IDE config file.
type configFile struct {
	Keymaps map[string][]fileBinding `toml:"keymaps"`
}

// Registry holds the known keymaps by name.
type Registry struct {
	keymaps map[string]*Keymap
}

// LoadRegistry loads the built-in keymaps, then every *.toml file found in
// paths. A path may be a file or a directory. Later sources replace earlier
// keymaps of the same name.
func LoadRegistry(paths ...string) (*Registry, error) {
	r := &Registry{keymaps: make(map[string]*Keymap)}

	entries, err := fs.Glob(builtin, "keymaps/*.toml")
	if err != nil {
		return nil, err
	}
	for _, name := range entries {
		f, err := builtin.Open(name)
		if err != nil {
			return nil, err
		}
		err = r.load(name, f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	for _, p := range paths {
		files, err := tomlFiles(p)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if err := r.loadFile(file); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

func tomlFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("keymap path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := filepath.Glob(filepath.Join(path, "*.toml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (r *Registry) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open keymap file: %w", err)
	}
	defer f.Close()
	return r.load(path, f)
}

func (r *Registry) load(source string, rd io.Reader) error {
	keymaps, err := ParseConfig(rd)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	for _, km := range keymaps {
		if _, exists := r.keymaps[km.Name]; exists {
			logger.Debug("Keymap overridden", "keymap", km.Name, "source", source)
		}
		r.keymaps[km.Name] = km
	}
	return nil
}

// ParseConfig reads the keymaps defined in an SQL IDE config file.
func ParseConfig(rd io.Reader) ([]*Keymap, error) {
	var cfg configFile
	md, err := toml.NewDecoder(rd).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid keymap file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger.Debug("Ignoring keys in keymap file", "keys", fmt.Sprint(undecoded))
	}

	names := make([]string, 0, len(cfg.Keymaps))
	for name := range cfg.Keymaps {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Keymap, 0, len(names))
	for _, name := range names {
		km := &Keymap{Name: name}
		for i, fb := range cfg.Keymaps[name] {
			if fb.Action == "" {
				return nil, fmt.Errorf("keymaps.%s[%d]: action is required", name, i)
			}
			km.Bindings = append(km.Bindings, Binding{Keys: fb.Keys, Action: fb.Action, KeyDisplay: fb.KeyDisplay})
		}
		out = append(out, km)
	}
	return out, nil
}

// Get returns the keymap called name.
func (r *Registry) Get(name string) (*Keymap, error) {
	km, ok := r.keymaps[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (expected one of: %s)", ErrUnknownKeymap, name, strings.Join(r.Names(), ", "))
	}
	return km, nil
}

// Names returns the sorted keymap names, excluding the custom keymap.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.keymaps))
	for name := range r.keymaps {
		if name != CustomKeymapName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// WriteConfig writes keymaps as an SQL IDE config file.
func WriteConfig(w io.Writer, keymaps ...*Keymap) error {
	cfg := configFile{Keymaps: make(map[string][]fileBinding, len(keymaps))}
	for _, km := range keymaps {
		bindings := make([]fileBinding, 0, len(km.Bindings))
		for _, b := range km.Bindings {
			bindings = append(bindings, fileBinding{Keys: b.Keys, Action: b.Action, KeyDisplay: b.KeyDisplay})
		}
		cfg.Keymaps[km.Name] = bindings
	}

	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(cfg)
}
