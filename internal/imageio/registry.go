package imageio

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ironsheep/imageio-mcp/internal/ioerr"
)

// PluginVersion is the plugin protocol version. Register rejects plugins
// built for any other version.
const PluginVersion = 1

// Plugin describes one format plugin. Either factory may be nil when the
// plugin only reads or only writes, but not both.
type Plugin struct {
	Name             string
	Version          int
	OutputExtensions []string
	InputExtensions  []string
	NewOutput        func() ImageOutput
	NewInput         func() ImageInput
}

var (
	registryMu sync.RWMutex
	plugins    = make(map[string]Plugin)
	outputExts = make(map[string]string) // extension -> plugin name
	inputExts  = make(map[string]string)
)

func normExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Register adds a plugin. It is normally called from the plugin package's
// init function. Registering a name twice replaces the earlier plugin.
func Register(p Plugin) error {
	const op = "register"
	switch {
	case p.Name == "":
		return ioerr.Default.Record(ioerr.Errorf(ioerr.ErrInternal, op, "plugin has no name"))
	case p.Version != PluginVersion:
		return ioerr.Default.Record(ioerr.Errorf(ioerr.ErrUnsupportedFeature, op,
			"plugin %q has version %d, want %d", p.Name, p.Version, PluginVersion))
	case p.NewOutput == nil && p.NewInput == nil:
		return ioerr.Default.Record(ioerr.Errorf(ioerr.ErrInternal, op, "plugin %q has no factory", p.Name))
	case p.NewOutput == nil && len(p.OutputExtensions) > 0, p.NewInput == nil && len(p.InputExtensions) > 0:
		return ioerr.Default.Record(ioerr.Errorf(ioerr.ErrInternal, op,
			"plugin %q lists extensions for a missing factory", p.Name))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	plugins[p.Name] = p
	for _, ext := range p.OutputExtensions {
		outputExts[normExt(ext)] = p.Name
	}
	for _, ext := range p.InputExtensions {
		inputExts[normExt(ext)] = p.Name
	}
	Logger().Debug("imageio: registered plugin", "name", p.Name)
	return nil
}

// Unregister removes a plugin and its extensions. It is meant for tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(plugins, name)
	for ext, n := range outputExts {
		if n == name {
			delete(outputExts, ext)
		}
	}
	for ext, n := range inputExts {
		if n == name {
			delete(inputExts, ext)
		}
	}
}

// Plugins returns the registered plugins sorted by name.
func Plugins() []Plugin {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Plugin, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the plugin registered under name.
func Lookup(name string) (Plugin, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := plugins[name]
	return p, ok
}

// find resolves filename to a plugin by its extension, or by the whole
// string when it has none (so "tiff" finds the tiff plugin).
func find(filename string, exts map[string]string) (Plugin, bool) {
	key := normExt(filepath.Ext(filename))
	if key == "" {
		key = strings.ToLower(filename)
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	if name, ok := exts[key]; ok {
		return plugins[name], true
	}
	p, ok := plugins[key]
	return p, ok
}

// CreateOutput returns a new, closed ImageOutput for the format implied by
// filename's extension.
func CreateOutput(filename string) (ImageOutput, error) {
	p, ok := find(filename, outputExts)
	if !ok || p.NewOutput == nil {
		return nil, ioerr.Default.Record(ioerr.Errorf(ioerr.ErrOpen, "create output",
			"no format writer for %q", filename))
	}
	return p.NewOutput(), nil
}

// CreateInput returns a new, closed ImageInput for the format implied by
// filename's extension.
func CreateInput(filename string) (ImageInput, error) {
	p, ok := find(filename, inputExts)
	if !ok || p.NewInput == nil {
		return nil, ioerr.Default.Record(ioerr.Errorf(ioerr.ErrOpen, "create input",
			"no format reader for %q", filename))
	}
	return p.NewInput(), nil
}

// GetError returns and clears the last error recorded by the registry or by
// CreateOutput and CreateInput.
func GetError() string {
	return ioerr.Default.Get()
}
