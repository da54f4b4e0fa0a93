package commands

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    VersionInfo
		wantOut []string
	}{
		{
			name:    "default version",
			info:    VersionInfo{Version: "0.1.0", GitCommit: "abc1234", BuildDate: "2025-06-01"},
			wantOut: []string{"cafeferry v0.1.0", "abc1234", "2025-06-01"},
		},
		{
			name:    "dev version",
			info:    VersionInfo{Version: "dev", GitCommit: "unknown", BuildDate: "unknown"},
			wantOut: []string{"cafeferry vdev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			output := buf.String()
			for _, want := range tt.wantOut {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
			if !strings.Contains(output, runtime.Version()) {
				t.Errorf("output should contain the Go version, got: %s", output)
			}
		})
	}
}

func TestVersionCommandJSON(t *testing.T) {
	cmd := NewVersionCommand(VersionInfo{Version: "1.2.3", GitCommit: "abc1234", BuildDate: "2025-06-01"})

	out, err := executeJSON(t, cmd)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got VersionInfo
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", got.Version, "1.2.3")
	}
	if got.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", got.GoVersion, runtime.Version())
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(VersionInfo{Version: "test"})

	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
	if cmd.Short == "" {
		t.Error("Short should not be empty")
	}
}
