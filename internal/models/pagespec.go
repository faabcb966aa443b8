package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PageSpec declares what a dashboard route is expected to expose:
// the selectors the probes wait on, the data-testid attributes the
// application map looks for, and the table headers verification checks.
type PageSpec struct {
	Name             string   `yaml:"name"`
	Route            string   `yaml:"route"`
	Title            string   `yaml:"title,omitempty"`
	ReadySelector    string   `yaml:"ready_selector,omitempty"`
	ExpectedHeaders  []string `yaml:"expected_headers,omitempty"`
	ExpectedTestIDs  []string `yaml:"expected_testids,omitempty"`
	IsolateSelectors []string `yaml:"isolate_selectors,omitempty"`
}

// Validate checks the minimum fields a spec needs to be usable.
func (p *PageSpec) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("page spec missing name")
	}
	if !strings.HasPrefix(p.Route, "/") {
		return fmt.Errorf("page spec %q: route must start with '/', got %q", p.Name, p.Route)
	}
	return nil
}

// LoadPageSpec reads a single page spec from a YAML file.
func LoadPageSpec(path string) (*PageSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page spec %s: %w", path, err)
	}

	var spec PageSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse page spec %s: %w", path, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid page spec %s: %w", path, err)
	}

	return &spec, nil
}

// LoadPageSpecs loads all *.yaml/*.yml specs from a directory,
// keyed by spec name. A missing directory yields an empty map.
func LoadPageSpecs(dir string) (map[string]*PageSpec, error) {
	specs := make(map[string]*PageSpec)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return specs, nil
		}
		return nil, fmt.Errorf("failed to read page spec directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		spec, err := LoadPageSpec(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, exists := specs[spec.Name]; exists {
			return nil, fmt.Errorf("duplicate page spec name %q in %s", spec.Name, entry.Name())
		}
		specs[spec.Name] = spec
	}

	return specs, nil
}
