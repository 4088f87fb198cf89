package hp

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Preset defines one named experiment as a refinement of a base preset.
// Root presets (Base == "") carry the complete default field set in Defaults;
// every other preset names its base and overrides a subset of fields. The
// merged view seen by callers is the base fields with the overridden ones
// replaced, most derived definition winning.
type Preset struct {
	Name     string
	Base     string
	Desc     string
	Retired  bool
	Defaults *Config
	Override map[string]string
}

var registry = map[string]Preset{}

// Register adds a preset to the registry. Presets are expected to be
// registered from package init, before any lookups run.
func Register(p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset has no name")
	}
	if _, ok := registry[p.Name]; ok {
		return fmt.Errorf("preset %s already registered", p.Name)
	}
	if p.Base == "" && p.Defaults == nil {
		return fmt.Errorf("preset %s: root preset must have defaults", p.Name)
	}
	if p.Base != "" && p.Defaults != nil {
		return fmt.Errorf("preset %s: defaults are only valid on a root preset", p.Name)
	}
	registry[p.Name] = p
	return nil
}

// MustRegister adds a preset and panics if the definition is invalid. For
// use from package init.
func MustRegister(p Preset) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

// Lookup returns the registered preset definition.
func Lookup(name string) (Preset, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names lists registered presets in sorted order. Retired presets are still
// resolvable by name but only listed on request.
func Names(retired bool) []string {
	names := []string{}
	for name, p := range registry {
		if retired || !p.Retired {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Resolve materializes the merged config for a named preset: the root
// defaults are copied and each level of overrides is applied from the root
// down, then the experiment name is stamped with the preset name. A missing
// preset or base gives a *NotFoundError and no partial result.
func Resolve(name string) (Config, error) {
	chain := []Preset{}
	seen := map[string]bool{}
	for next := name; ; {
		p, ok := registry[next]
		if !ok {
			return Config{}, &NotFoundError{Name: next}
		}
		if seen[p.Name] {
			return Config{}, fmt.Errorf("preset %s: cycle in base chain at %s", name, p.Name)
		}
		seen[p.Name] = true
		chain = append(chain, p)
		if p.Base == "" {
			break
		}
		next = p.Base
	}
	conf := *chain[len(chain)-1].Defaults
	for i := len(chain) - 1; i >= 0; i-- {
		var err error
		conf, err = conf.Apply(chain[i].Override)
		if err != nil {
			return Config{}, fmt.Errorf("preset %s: %w", chain[i].Name, err)
		}
	}
	conf.ExpName = name
	return conf, nil
}

// Working returns the working config for an experiment: the saved artifact
// if present, else the resolved preset.
func Working(name string) (Config, error) {
	if file, ok := artifactFile(name); ok {
		return LoadConfig(file)
	}
	return Resolve(name)
}

// HasArtifact reports whether a saved .conf artifact exists for the
// experiment.
func HasArtifact(name string) bool {
	_, ok := artifactFile(name)
	return ok
}

// Find the artifact file for an experiment. Normally <name>.conf, but a
// renamed artifact such as <name>.v2.conf still answers to the experiment
// name it derives to.
func artifactFile(name string) (string, bool) {
	if FileExists(name + ".conf") {
		return name + ".conf", true
	}
	files, err := os.ReadDir(DataDir)
	if err != nil {
		return "", false
	}
	for _, file := range files {
		fn := file.Name()
		if strings.HasSuffix(fn, ".conf") && !strings.HasPrefix(fn, ".") && ExpName(fn) == name {
			return fn, true
		}
	}
	return "", false
}

// List returns the selectable experiments: registered presets plus saved
// artifacts, deduplicated and sorted.
func List(retired bool) ([]string, error) {
	names := Names(retired)
	saved, err := Artifacts()
	if err != nil {
		return nil, err
	}
	have := map[string]bool{}
	for _, name := range names {
		have[name] = true
	}
	for _, name := range saved {
		if !have[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Artifacts lists the experiment names of saved .conf artifacts under
// DataDir, in sorted order.
func Artifacts() ([]string, error) {
	files, err := os.ReadDir(DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := []string{}
	have := map[string]bool{}
	for _, file := range files {
		name := file.Name()
		if strings.HasSuffix(name, ".conf") && !strings.HasPrefix(name, ".") {
			if exp := ExpName(name); !have[exp] {
				have[exp] = true
				names = append(names, exp)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
