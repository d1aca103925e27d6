package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/shadercomposer/nodegraph/pkg/document"
)

const validDocument = `{
  "format": "shader-composer-node-graph",
  "formatVersion": "2.0",
  "graph": {
    "id": "g1",
    "name": "Field",
    "version": "1.0",
    "nodes": [
      {"id": "n1", "type": "uv-coordinates", "position": {"x": 0, "y": 0}, "parameters": {}},
      {"id": "n2", "type": "noise", "position": {"x": 200, "y": 0}, "parameters": {"noiseScale": 2}}
    ],
    "connections": [
      {"id": "c1", "sourceNodeId": "n1", "sourcePort": "out", "targetNodeId": "n2", "targetPort": "in"}
    ],
    "automation": {
      "bpm": 120,
      "durationSeconds": 10,
      "lanes": [{
        "id": "l1", "nodeId": "n2", "paramName": "noiseScale",
        "regions": [{"id": "r1", "startTime": 0, "duration": 4, "loop": false,
          "curve": {"keyframes": [{"time": 0, "value": 0}, {"time": 1, "value": 1}], "interpolation": "linear"}}]
      }]
    }
  }
}`

const legacyDocument = `{
  "format": "shader-composer-node-graph",
  "formatVersion": "2.0",
  "graph": {
    "id": "g1", "name": "Legacy", "version": "1.0",
    "nodes": [{"id": "n2", "type": "noise", "position": {"x": 0, "y": 0}, "parameters": {}}],
    "connections": [
      {"id": "c1", "sourceNodeId": "audio-signal:band-B-remap", "sourcePort": "value", "targetNodeId": "n2", "targetParameter": "noiseScale"}
    ]
  },
  "audioSetup": {"files": [], "bands": [{"id": "B", "name": "Bass", "sourceFileId": "f1", "frequencyBands": [[20, 250]], "fftSize": 2048}], "remappers": []}
}`

// execute runs the root command with an isolated config and cache.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	want := []string{"validate", "migrate", "inspect", "export", "automation", "catalog", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"DEBUG", log.DebugLevel, false},
		{"warn", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"trace", log.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	good := writeFile(t, "good.json", validDocument)
	if err := execute(t, "validate", good); err != nil {
		t.Fatalf("validate good document: %v", err)
	}

	bad := writeFile(t, "bad.json", strings.Replace(validDocument, `"noiseScale": 2}`, `"noiseScale": 20}`, 1))
	err := execute(t, "validate", good, bad)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("validate bad document: err = %v, want errInvalid", err)
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("err = %v, want count of failed documents", err)
	}
}

func TestValidateCommand_Strict(t *testing.T) {
	// octaves is an int parameter, so automating it only warns.
	doc := strings.Replace(validDocument, `"paramName": "noiseScale"`, `"paramName": "octaves"`, 1)
	path := writeFile(t, "warn.json", doc)

	if err := execute(t, "validate", path); err != nil {
		t.Fatalf("warnings failed validation: %v", err)
	}
	if err := execute(t, "validate", "--strict", path); !errors.Is(err, errInvalid) {
		t.Errorf("--strict err = %v, want errInvalid", err)
	}
}

func TestMigrateCommand(t *testing.T) {
	in := writeFile(t, "legacy.json", legacyDocument)
	out := filepath.Join(t.TempDir(), "current.json")

	if err := execute(t, "migrate", in, "-o", out); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	res := document.DeserializeGraphUnvalidated(data)
	if !res.OK() {
		t.Fatalf("migrated output does not parse: %v", res.Errors)
	}
	if len(res.Applied) != 0 {
		t.Errorf("migrated output still needs %v", res.Applied)
	}
	if got := res.Graph.Connections[0].SourceNodeID; got != "audio-signal:remap-band-B" {
		t.Errorf("source = %q", got)
	}
}

func TestMigrateCommand_RequiresDestination(t *testing.T) {
	in := writeFile(t, "legacy.json", legacyDocument)
	if err := execute(t, "migrate", in); err == nil {
		t.Error("migrate without --output or --in-place should fail")
	}
}

func TestExportCommand_DOT(t *testing.T) {
	in := writeFile(t, "scene.json", validDocument)
	out := filepath.Join(t.TempDir(), "scene.dot")

	if err := execute(t, "export", in, "-f", "dot", "-o", out, "--detailed"); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"n1" -> "n2"`)) {
		t.Errorf("DOT output missing edge:\n%s", data)
	}
}

func TestExportCommand_InvalidFormat(t *testing.T) {
	in := writeFile(t, "scene.json", validDocument)
	if err := execute(t, "export", in, "-f", "gif"); err == nil {
		t.Error("expected invalid format error")
	}
}

func TestDefaultOutput(t *testing.T) {
	if got := defaultOutput("dir/scene.json", "svg"); got != "dir/scene.svg" {
		t.Errorf("defaultOutput() = %q", got)
	}
	if got := defaultOutput("scene", "png"); got != "scene.png" {
		t.Errorf("defaultOutput() = %q", got)
	}
}

func TestAutomationCommands(t *testing.T) {
	in := writeFile(t, "scene.json", validDocument)
	if err := execute(t, "automation", "list", in); err != nil {
		t.Errorf("automation list: %v", err)
	}
	if err := execute(t, "automation", "sample", in, "--lane", "l1", "-n", "3"); err != nil {
		t.Errorf("automation sample: %v", err)
	}
	if err := execute(t, "automation", "sample", in, "--lane", "l1", "--at", "2"); err != nil {
		t.Errorf("automation sample --at: %v", err)
	}
	if err := execute(t, "automation", "sample", in, "--lane", "missing"); err == nil {
		t.Error("unknown lane should fail")
	}
}

func TestCatalogList(t *testing.T) {
	if err := execute(t, "catalog", "list", "--params"); err != nil {
		t.Errorf("catalog list: %v", err)
	}
	if err := execute(t, "--catalog", filepath.Join(t.TempDir(), "none.yaml"), "catalog", "list"); err == nil {
		t.Error("missing catalog file should fail")
	}
}

func TestInspectCommand(t *testing.T) {
	in := writeFile(t, "scene.json", validDocument)
	if err := execute(t, "inspect", in); err != nil {
		t.Errorf("inspect: %v", err)
	}
	broken := writeFile(t, "broken.json", "{nope")
	if err := execute(t, "inspect", broken); !errors.Is(err, errInvalid) {
		t.Errorf("inspect broken: err = %v, want errInvalid", err)
	}
}

func TestCachePath(t *testing.T) {
	if err := execute(t, "cache", "path"); err != nil {
		t.Errorf("cache path: %v", err)
	}
	if err := execute(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear: %v", err)
	}
}

func TestFormatStats(t *testing.T) {
	if got := plural(1, "node"); got != "1 node" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(3, "lane"); got != "3 lanes" {
		t.Errorf("plural(3) = %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate() = %q", got)
	}
}
