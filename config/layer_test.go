package config

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestMerge_Precedence(t *testing.T) {
	base := DefaultConfig()
	git := Layer{Name: "git config", Format: Ptr("png"), Viewer: Ptr("eog"), Merges: Ptr(true)}
	cli := Layer{Name: "command line", Format: Ptr("pdf"), Roots: Ptr(false)}

	cfg := Merge(log.New(io.Discard), base, git, cli)

	if cfg.Output.Format != "pdf" {
		t.Errorf("Format = %q, expected command line value %q", cfg.Output.Format, "pdf")
	}
	if cfg.Output.Viewer != "eog" {
		t.Errorf("Viewer = %q, expected git config value %q", cfg.Output.Viewer, "eog")
	}
	if !cfg.Filter.Merges {
		t.Error("Merges = false, expected git config value true")
	}
	if cfg.Filter.Roots {
		t.Error("Roots = true, expected command line value false")
	}
	if !cfg.Filter.Branches || cfg.Output.Wait != 2.0 {
		t.Errorf("unset values lost their defaults: %+v", cfg)
	}
	if base.Output.Format != "svg" {
		t.Error("Merge modified its base")
	}
}

func TestMerge_EmptyStringDisables(t *testing.T) {
	base := DefaultConfig()
	base.Output.Viewer = "eog"

	cfg := Merge(log.New(io.Discard), base, Layer{Name: "command line", Viewer: Ptr("")})

	if cfg.Output.Viewer != "" {
		t.Errorf("Viewer = %q, expected disabled", cfg.Output.Viewer)
	}
}

func TestMerge_LogsOverrides(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	Merge(logger, DefaultConfig(), Layer{Name: "command line", Format: Ptr("png")})

	out := buf.String()
	for _, want := range []string{"'format'", "'command line'", "png", "svg", "defaults"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not mention %q", out, want)
		}
	}
}

type fakeSettings map[string]string

func (f fakeSettings) Setting(name string) (string, bool, error) {
	v, ok := f[name]
	return v, ok, nil
}

type failingSettings struct{}

func (failingSettings) Setting(string) (string, bool, error) {
	return "", false, errors.New("config unreadable")
}

func TestGitConfigLayer(t *testing.T) {
	src := fakeSettings{
		"format":   "pdf",
		"wait":     "1",
		"viewer":   "off",
		"outfile":  "graph.svg",
		"graphviz": "Yes",
		"roots":    "0",
		"merges":   "maybe",
		"messages": "on",
	}

	l, err := GitConfigLayer(log.New(io.Discard), src)
	if err != nil {
		t.Fatalf("GitConfigLayer: %v", err)
	}

	if l.Format == nil || *l.Format != "pdf" {
		t.Errorf("Format = %v, expected pdf", l.Format)
	}
	if l.Wait == nil || *l.Wait != 1.0 {
		t.Errorf("Wait = %v, expected 1.0 seconds", l.Wait)
	}
	if l.Viewer == nil || *l.Viewer != "" {
		t.Errorf("Viewer = %v, expected disabled", l.Viewer)
	}
	if l.OutFile == nil || *l.OutFile != "graph.svg" {
		t.Errorf("OutFile = %v, expected graph.svg", l.OutFile)
	}
	if l.Graphviz == nil || !*l.Graphviz {
		t.Errorf("Graphviz = %v, expected true", l.Graphviz)
	}
	if l.Roots == nil || *l.Roots {
		t.Errorf("Roots = %v, expected false", l.Roots)
	}
	if l.Merges != nil {
		t.Errorf("Merges = %v, expected unset for a non-boolean value", *l.Merges)
	}
	if l.Messages == nil || !*l.Messages {
		t.Errorf("Messages = %v, expected true", l.Messages)
	}
	if l.Branches != nil || l.Tags != nil || l.Processed != nil {
		t.Error("unset settings were filled in")
	}
}

func TestGitConfigLayer_InvalidWait(t *testing.T) {
	l, err := GitConfigLayer(log.New(io.Discard), fakeSettings{"wait": "soon"})
	if err != nil {
		t.Fatalf("GitConfigLayer: %v", err)
	}
	if l.Wait != nil {
		t.Errorf("Wait = %v, expected unset", *l.Wait)
	}
}

func TestGitConfigLayer_SourceError(t *testing.T) {
	if _, err := GitConfigLayer(log.New(io.Discard), failingSettings{}); err == nil {
		t.Fatal("GitConfigLayer() expected error")
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input string
		value bool
		ok    bool
	}{
		{"1", true, true}, {"yes", true, true}, {"TRUE", true, true}, {"on", true, true},
		{"0", false, true}, {"no", false, true}, {"False", false, true}, {"off", false, true},
		{"eog", false, false}, {"", false, false},
	}
	for _, tt := range tests {
		value, ok := ParseBool(tt.input)
		if value != tt.value || ok != tt.ok {
			t.Errorf("ParseBool(%q) = %v, %v, expected %v, %v", tt.input, value, ok, tt.value, tt.ok)
		}
	}
}
