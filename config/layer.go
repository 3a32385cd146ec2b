package config

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Setting names shared by git config (big-picture.<name>) and diagnostics.
const (
	SettingFormat       = "format"
	SettingGraphviz     = "graphviz"
	SettingProcessed    = "processed"
	SettingViewer       = "viewer"
	SettingOutFile      = "outfile"
	SettingWait         = "wait"
	SettingBranches     = "branches"
	SettingTags         = "tags"
	SettingRoots        = "roots"
	SettingMerges       = "merges"
	SettingBifurcations = "bifurcations"
	SettingMessages     = "messages"
)

// Settings lists every layered setting in the order they are merged.
var Settings = []string{
	SettingFormat, SettingGraphviz, SettingProcessed, SettingViewer, SettingOutFile, SettingWait,
	SettingBranches, SettingTags, SettingRoots, SettingMerges, SettingBifurcations,
	SettingMessages,
}

// Layer is one source of settings. A nil field leaves the value of lower
// layers untouched. An empty Viewer or OutFile disables that output.
type Layer struct {
	Name string

	Format    *string
	Graphviz  *bool
	Processed *bool
	Viewer    *string
	OutFile   *string
	Wait      *float64

	Branches     *bool
	Tags         *bool
	Roots        *bool
	Merges       *bool
	Bifurcations *bool

	Messages *bool
}

// Merge applies layers in order on top of a copy of base and returns the
// result. Every value found is logged at debug level together with the value
// it overrides.
func Merge(logger *log.Logger, base *Config, layers ...Layer) *Config {
	cfg := base.Clone()
	m := merger{logger: logger, source: make(map[string]string, len(Settings))}
	for _, name := range Settings {
		m.source[name] = base.Source
	}

	for _, l := range layers {
		m.layer = l.Name
		mergeValue(m, SettingFormat, l.Format, &cfg.Output.Format)
		mergeValue(m, SettingGraphviz, l.Graphviz, &cfg.Output.Graphviz)
		mergeValue(m, SettingProcessed, l.Processed, &cfg.Output.Processed)
		mergeValue(m, SettingViewer, l.Viewer, &cfg.Output.Viewer)
		mergeValue(m, SettingOutFile, l.OutFile, &cfg.Output.OutFile)
		mergeValue(m, SettingWait, l.Wait, &cfg.Output.Wait)
		mergeValue(m, SettingBranches, l.Branches, &cfg.Filter.Branches)
		mergeValue(m, SettingTags, l.Tags, &cfg.Filter.Tags)
		mergeValue(m, SettingRoots, l.Roots, &cfg.Filter.Roots)
		mergeValue(m, SettingMerges, l.Merges, &cfg.Filter.Merges)
		mergeValue(m, SettingBifurcations, l.Bifurcations, &cfg.Filter.Bifurcations)
		mergeValue(m, SettingMessages, l.Messages, &cfg.Annotation.Messages)
	}
	return cfg
}

type merger struct {
	logger *log.Logger
	layer  string
	source map[string]string
}

func mergeValue[T comparable](m merger, name string, value *T, dst *T) {
	if value == nil {
		return
	}
	if m.logger != nil {
		m.logger.Debug(fmt.Sprintf("value for '%s' found in '%s'", name, m.layer),
			"value", *value, "overrides", *dst, "from", m.source[name])
	}
	*dst = *value
	m.source[name] = m.layer
}

// Ptr returns a pointer to v, for building layers.
func Ptr[T any](v T) *T {
	return &v
}
