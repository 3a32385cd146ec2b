package config

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// SettingSource reads big-picture.<name> from git config.
type SettingSource interface {
	Setting(name string) (string, bool, error)
}

// ParseBool parses the boolean words git config accepts.
func ParseBool(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true, true
	case "0", "no", "false", "off":
		return false, true
	}
	return false, false
}

// GitConfigLayer reads every setting from src. Values that cannot be parsed
// are logged and left unset.
func GitConfigLayer(logger *log.Logger, src SettingSource) (Layer, error) {
	l := Layer{Name: "git config"}
	for _, name := range Settings {
		raw, ok, err := src.Setting(name)
		if err != nil {
			return Layer{}, err
		}
		if !ok {
			continue
		}

		switch name {
		case SettingWait:
			// "1" is a number of seconds here, not a boolean.
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				logger.Debug("could not convert git config value to float", "setting", name, "value", raw)
				continue
			}
			l.Wait = &v
		case SettingFormat:
			l.Format = Ptr(raw)
		case SettingViewer, SettingOutFile:
			v := raw
			if b, isBool := ParseBool(raw); isBool && !b {
				v = ""
			}
			if name == SettingViewer {
				l.Viewer = &v
			} else {
				l.OutFile = &v
			}
		default:
			b, isBool := ParseBool(raw)
			if !isBool {
				logger.Debug("ignoring non-boolean git config value", "setting", name, "value", raw)
				continue
			}
			*l.boolField(name) = &b
		}
	}
	return l, nil
}

// boolField returns the address of the boolean setting called name.
func (l *Layer) boolField(name string) **bool {
	switch name {
	case SettingGraphviz:
		return &l.Graphviz
	case SettingProcessed:
		return &l.Processed
	case SettingBranches:
		return &l.Branches
	case SettingTags:
		return &l.Tags
	case SettingRoots:
		return &l.Roots
	case SettingMerges:
		return &l.Merges
	case SettingBifurcations:
		return &l.Bifurcations
	case SettingMessages:
		return &l.Messages
	}
	panic("config: not a boolean setting: " + name)
}
