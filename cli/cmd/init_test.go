package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/weft/weave"
)

type initCLI struct {
	Level    string `default:"info"`
	Pretty   bool   `default:"true"`
	PprofDir string `default:"/tmp"`
	Secret   string `default:"x"    hidden:""`

	Weave struct {
		Format       string             `default:"tex"`
		Depth        int                `default:"2"`
		Namespace    []string           `sep:","`
		Unterminated weave.Unterminated `default:"drop"`
	} `cmd:""`

	Hidden struct {
		Flag string `default:"nope"`
	} `cmd:"" hidden:""`
}

func initContext(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath}, kong.Exit(func(int) {}))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

			if tt.exists {
				if err := os.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
					t.Fatal(err)
				}

				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ktx := initContext(t, confPath, "weave", "--namespace=a,b")
			ctx := WithContext(t.Context(), ktx)

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, data)
			}

			if got["level"] != "info" || got["pretty"] != true {
				t.Errorf("application flags = %v", got)
			}

			for _, skipped := range []string{"help", "secret", "pprof-dir", "hidden"} {
				if _, ok := got[skipped]; ok {
					t.Errorf("config contains %q", skipped)
				}
			}

			w, ok := got["weave"].(map[string]any)
			if !ok {
				t.Fatalf("weave = %#v, want mapping", got["weave"])
			}

			if w["format"] != "tex" || w["unterminated"] != "drop" {
				t.Errorf("weave flags = %v", w)
			}
		})
	}
}

func TestInitValues(t *testing.T) {
	ktx := initContext(t, "unused", "weave", "--format=md", "--namespace=x,y", "--depth=5")

	got := (&Init{}).values(ktx)

	want := map[string]any{
		"level":  "info",
		"pretty": true,
		"weave": map[string]any{
			"format":       "md",
			"depth":        int64(5),
			"namespace":    []string{"x", "y"},
			"unterminated": "drop",
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"string", "x", "x"},
		{"bool", false, false},
		{"int", 3, int64(3)},
		{"uint", uint8(4), uint64(4)},
		{"float", 1.5, 1.5},
		{"empty slice", []string{}, nil},
		{"int slice", []int{1, 2}, []string{"1", "2"}},
		{"text marshaler", weave.NestedError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, plainValue(tt.in)); diff != "" {
				t.Errorf("plainValue(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
