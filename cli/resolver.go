package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML files such as the one
// written by "weft init":
//
//	log-level: debug
//	weave:
//	  format: md
//	  namespace: [setup, plots]
//
// Top-level keys name application flags or, when no command-specific value
// exists, the flag of any command. A mapping named after a command holds that
// command's flags. Keys may use underscores in place of hyphens. Nested
// mappings are flattened with hyphens, so "log: {level: debug}" also sets
// --log-level. Sequences become comma-separated lists.
//
// Command-line flags override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	c := config{}
	c.flatten("", doc)

	return c, nil
}

// config implements [kong.Resolver] over flattened YAML keys.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := normalize(k)
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := v.(type) {
		case map[string]any:
			c.flatten(key, v)
		case []any:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = fmt.Sprint(item)
			}

			c[key] = strings.Join(items, ",")
		case string, bool, nil:
			c[key] = v
		default:
			// Kong parses numbers from their string form.
			c[key] = fmt.Sprint(v)
		}
	}
}

func normalize(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), "_", "-")
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, path *kong.Path, flag *kong.Flag) (any, error) {
	name := normalize(flag.Name)

	if path != nil && path.Command != nil {
		if v, ok := c[normalize(path.Command.Name)+"-"+name]; ok && v != nil {
			return v, nil
		}
	}

	if v, ok := c[name]; ok && v != nil {
		return v, nil
	}

	return nil, nil
}
