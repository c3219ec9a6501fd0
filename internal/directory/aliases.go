package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"phonedir/internal/util"
	"phonedir/internal/voipms"
)

// Aliases lists, per logical field, the response keys to probe in priority order.
type Aliases struct {
	Collection  []string `yaml:"collection"`
	Identifier  []string `yaml:"identifier"`
	Description []string `yaml:"description"`
	Extension   []string `yaml:"extension"`
	Host        []string `yaml:"host"`
}

func DefaultAliases() Aliases {
	return Aliases{
		Collection:  append([]string(nil), voipms.DefaultCollectionKeys...),
		Identifier:  []string{"username", "user"},
		Description: []string{"description"},
		Extension:   []string{"internal_extension", "internal", "extension"},
		Host:        []string{"server", "pop", "server_name", "server_hostname"},
	}
}

// LoadAliases reads extra keys from a YAML file and appends them after the
// defaults. An empty path returns the defaults.
func LoadAliases(path string) (Aliases, error) {
	base := DefaultAliases()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, fmt.Errorf("read aliases file: %w", err)
	}
	var extra Aliases
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return Aliases{}, fmt.Errorf("parse aliases file %s: %w", path, err)
	}
	return base.Merge(extra), nil
}

func (a Aliases) Merge(extra Aliases) Aliases {
	return Aliases{
		Collection:  mergeKeys(a.Collection, extra.Collection),
		Identifier:  mergeKeys(a.Identifier, extra.Identifier),
		Description: mergeKeys(a.Description, extra.Description),
		Extension:   mergeKeys(a.Extension, extra.Extension),
		Host:        mergeKeys(a.Host, extra.Host),
	}
}

func mergeKeys(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := map[string]struct{}{}
	for _, list := range [][]string{base, extra} {
		for _, key := range list {
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}

// Lookup returns the first value among keys that is non-empty after trimming,
// and the key it was found under.
func Lookup(record map[string]any, keys []string) (string, string) {
	for _, key := range keys {
		if value := util.Text(record[key]); value != "" {
			return value, key
		}
	}
	return "", ""
}
