package profiles

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	apperrors "sjsage522/mpcontacts/pkg/errors"

	"gopkg.in/yaml.v3"
)

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadFile reads profiles from a YAML file with a top level "profiles" list.
// Every profile is validated.
func LoadFile(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfiguration(fmt.Sprintf("read profiles file %s", path), err)
	}
	ps, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

// Parse decodes and validates a profiles document. Unknown keys are rejected
// so that a misspelt rule option does not silently do nothing.
func Parse(data []byte) ([]Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc profileFile
	if err := dec.Decode(&doc); err != nil {
		return nil, apperrors.NewConfiguration("decode profiles", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, apperrors.NewConfiguration("profiles document has no profiles", nil)
	}

	seen := make(map[string]bool)
	for _, p := range doc.Profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(p.ID)
		if seen[key] {
			return nil, apperrors.NewValidation(p.ID, "duplicate profile id", nil)
		}
		seen[key] = true
	}
	return doc.Profiles, nil
}
