package cmd

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/weft/log"
	"github.com/ardnew/weft/profile"
)

// Init generates a configuration file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: configuration path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(i.values(ktx), yaml.Indent(2))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// values collects the configurable flags: application flags at the top
// level and each command's flags in a mapping named after the command.
func (i *Init) values(ktx *kong.Context) map[string]any {
	root := flagValues(ktx, ktx.Model.Flags)

	for _, child := range ktx.Model.Children {
		if child.Type != kong.CommandNode || child.Hidden {
			continue
		}

		if vals := flagValues(ktx, child.Flags); len(vals) > 0 {
			root[child.Name] = vals
		}
	}

	return root
}

// ignoredFlag reports whether a flag does not belong in a configuration file.
func ignoredFlag(flag *kong.Flag) bool {
	return flag.Hidden || slices.ContainsFunc(
		[]string{"help", "version", profile.Tag},
		func(s string) bool { return strings.HasPrefix(flag.Name, s) },
	)
}

func flagValues(ktx *kong.Context, flags []*kong.Flag) map[string]any {
	vals := make(map[string]any, len(flags))

	for _, flag := range flags {
		if ignoredFlag(flag) {
			continue
		}

		if v := plainValue(ktx.FlagValue(flag)); v != nil {
			vals[flag.Name] = v
		}
	}

	return vals
}

// plainValue converts a flag value to a YAML scalar or sequence, returning
// nil for values that are empty.
func plainValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil

	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil || len(text) == 0 {
			return nil
		}

		return string(text)

	case bool:
		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		if rv.String() == "" {
			return nil
		}

		return rv.String()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()

	case reflect.Float32, reflect.Float64:
		return rv.Float()

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		items := make([]string, rv.Len())
		for i := range rv.Len() {
			items[i] = fmt.Sprint(rv.Index(i).Interface())
		}

		return items

	default:
		return fmt.Sprint(v)
	}
}
