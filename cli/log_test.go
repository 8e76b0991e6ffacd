package cli

import (
	"os"
	"testing"

	"github.com/ardnew/weft/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"weave", "--log-level", "debug", "--log-format", "json", "doc.w"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=warn", "--log-format=text"},
			want: logConfig{Level: "warn", Format: "text"},
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			want: logConfig{Caller: true, Pretty: false},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-pretty=true", "--no-log-caller=false"},
			want: logConfig{Pretty: true, Caller: true},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Level: "", Caller: true},
		},
		{
			name: "after terminator",
			args: []string{"run", "--", "--log-level=debug"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
