package cmd

import (
	"fmt"
	"strings"

	"github.com/git-big-picture/git-big-picture/config"
	"github.com/git-big-picture/git-big-picture/internal/output"
	"github.com/urfave/cli/v2"
)

const (
	outputCategory = "output options"
	filterCategory = "filter options"
)

// switchFlags returns a boolean flag and its negation, e.g. --tags/-t and
// --no-tags/-T.
func switchFlags(name, alias, negAlias, usage, negUsage string) []cli.Flag {
	category := filterCategory
	if name == config.SettingGraphviz || name == config.SettingProcessed {
		category = outputCategory
	}
	return []cli.Flag{
		&cli.BoolFlag{Name: name, Aliases: []string{alias}, Usage: usage, Category: category},
		&cli.BoolFlag{Name: "no-" + name, Aliases: []string{negAlias}, Usage: negUsage, Category: category},
	}
}

// outputFlags control output and format.
func outputFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    "set output format [svg, png, ps, pdf, ...]",
			Category: outputCategory,
		},
		&cli.StringFlag{
			Name:     "history-direction",
			Usage:    "enforce a specific direction of history on Graphviz (" + strings.Join(output.HistoryDirections(), ", ") + ")",
			Category: outputCategory,
		},
	}
	flags = append(flags, switchFlags(config.SettingGraphviz, "g", "G",
		"output lines suitable as input for dot/graphviz", "disable dot/graphviz output")...)
	flags = append(flags, switchFlags(config.SettingProcessed, "p", "P",
		"output the dot processed, binary data", "disable binary output")...)
	return append(flags,
		&cli.StringFlag{
			Name:     "viewer",
			Aliases:  []string{"v"},
			Usage:    "write image to tempfile and start specified viewer `CMD`",
			Category: outputCategory,
		},
		&cli.BoolFlag{
			Name:     "no-viewer",
			Aliases:  []string{"V"},
			Usage:    "disable starting viewer",
			Category: outputCategory,
		},
		&cli.StringFlag{
			Name:     "outfile",
			Aliases:  []string{"o"},
			Usage:    "write image to specified `FILE`",
			Category: outputCategory,
		},
		&cli.BoolFlag{
			Name:     "no-outfile",
			Aliases:  []string{"O"},
			Usage:    "disable writing image to file",
			Category: outputCategory,
		},
		&cli.Float64Flag{
			Name:     "wait",
			Aliases:  []string{"w"},
			Usage:    "wait for `SECONDS` seconds before deleting the temporary file that is opened using the viewer command (default: 2 seconds)",
			Category: outputCategory,
		},
		&cli.StringFlag{
			Name:     "renderer",
			Usage:    "how images are produced: auto, dot or embedded",
			Category: outputCategory,
		},
	)
}

// filterFlags control commit and ref selection.
func filterFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:     "all",
			Aliases:  []string{"a"},
			Usage:    "include all commits",
			Category: filterCategory,
		},
	}
	flags = append(flags, switchFlags(config.SettingBranches, "b", "B",
		"show commits pointed to by branches", "do not show commits pointed to by branches")...)
	flags = append(flags, switchFlags(config.SettingTags, "t", "T",
		"show commits pointed to by tags", "do not show commits pointed to by tags")...)
	flags = append(flags, switchFlags(config.SettingRoots, "r", "R",
		"show root commits", "do not show root commits")...)
	flags = append(flags, switchFlags(config.SettingMerges, "m", "M",
		"include merge commits", "do not include merge commits")...)
	flags = append(flags, switchFlags(config.SettingBifurcations, "i", "I",
		"include bifurcation commits", "do not include bifurcation commits")...)
	flags = append(flags, &cli.BoolFlag{
		Name:     "commit-messages",
		Aliases:  []string{"c"},
		Usage:    "include commit messages on labels",
		Category: filterCategory,
	}, &cli.BoolFlag{
		Name:     "no-commit-messages",
		Aliases:  []string{"C"},
		Usage:    "do not include commit messages on labels",
		Category: filterCategory,
	})
	return append(flags,
		&cli.StringSliceFlag{
			Name:     "include-refs",
			Usage:    "only read branches and tags matching these glob patterns (can be specified multiple times)",
			Category: filterCategory,
		},
		&cli.StringSliceFlag{
			Name:     "exclude-refs",
			Usage:    "skip branches and tags matching these glob patterns (can be specified multiple times)",
			Category: filterCategory,
		},
		&cli.StringSliceFlag{
			Name:     "include-commit",
			Usage:    "always show this revision (can be specified multiple times)",
			Category: filterCategory,
		},
		&cli.BoolFlag{
			Name:     "collapse",
			Usage:    "replace runs of unlabeled commits by an ellipsis",
			Category: filterCategory,
		},
		&cli.BoolFlag{
			Name:     "reduce-edges",
			Usage:    "drop edges implied by longer paths",
			Category: filterCategory,
		},
	)
}

// miscFlags are the remaining flags.
func miscFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to configuration file (.json or .toml)",
		},
		&cli.StringFlag{
			Name:  "save-config",
			Usage: "write the merged settings to `FILE` (.json or .toml) instead of drawing",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Repository backend (gogit, cli)",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "activate debug output",
		},
	}
}

// switchValue reads a flag pair. It returns nil when neither flag was given.
func switchValue(c *cli.Context, name, negName string) (*bool, error) {
	on, off := c.IsSet(name), c.IsSet(negName)
	switch {
	case on && off:
		return nil, fmt.Errorf("options '--%s' and '--%s' are mutually exclusive", name, negName)
	case on:
		return config.Ptr(true), nil
	case off:
		return config.Ptr(false), nil
	}
	return nil, nil
}

// stringValue reads a string flag and the flag disabling it. Disabling
// yields an empty string.
func stringValue(c *cli.Context, name, negName string) (*string, error) {
	on, off := c.IsSet(name), c.IsSet(negName)
	switch {
	case on && off:
		return nil, fmt.Errorf("options '--%s' and '--%s' are mutually exclusive", name, negName)
	case on:
		return config.Ptr(c.String(name)), nil
	case off:
		return config.Ptr(""), nil
	}
	return nil, nil
}

// commandLineLayer builds the settings layer given on the command line.
func commandLineLayer(c *cli.Context) (config.Layer, error) {
	l := config.Layer{Name: "command line"}
	var err error

	if c.IsSet("format") {
		l.Format = config.Ptr(c.String("format"))
	}
	if c.IsSet("wait") {
		l.Wait = config.Ptr(c.Float64("wait"))
	}

	if l.Viewer, err = stringValue(c, "viewer", "no-viewer"); err != nil {
		return l, err
	}
	if l.OutFile, err = stringValue(c, "outfile", "no-outfile"); err != nil {
		return l, err
	}

	switches := []struct {
		name string
		dst  **bool
	}{
		{config.SettingGraphviz, &l.Graphviz},
		{config.SettingProcessed, &l.Processed},
		{config.SettingBranches, &l.Branches},
		{config.SettingTags, &l.Tags},
		{config.SettingRoots, &l.Roots},
		{config.SettingMerges, &l.Merges},
		{config.SettingBifurcations, &l.Bifurcations},
	}
	for _, s := range switches {
		if *s.dst, err = switchValue(c, s.name, "no-"+s.name); err != nil {
			return l, err
		}
	}
	if l.Messages, err = switchValue(c, "commit-messages", "no-commit-messages"); err != nil {
		return l, err
	}
	return l, nil
}
