package sfm

import (
	"fmt"
	"regexp"
)

// PipelineConfig is the declarative form of a transform pipeline, decodable
// from YAML or JSON. Steps run in declaration order.
type PipelineConfig struct {
	Transforms []TransformConfig `yaml:"transforms" json:"transforms"`
}

// TransformConfig describes one pipeline step. Exactly one variant must be
// set.
type TransformConfig struct {
	Rename        *RenameConfig        `yaml:"rename,omitempty" json:"rename,omitempty"`
	RenamePattern *RenamePatternConfig `yaml:"rename_pattern,omitempty" json:"rename_pattern,omitempty"`
	Drop          []string             `yaml:"drop,omitempty" json:"drop,omitempty"`
	Keep          []string             `yaml:"keep,omitempty" json:"keep,omitempty"`
	Merge         *MergeConfig         `yaml:"merge,omitempty" json:"merge,omitempty"`
	Split         *SplitConfig         `yaml:"split,omitempty" json:"split,omitempty"`
}

// RenameConfig renames an exact marker.
type RenameConfig struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// RenamePatternConfig renames markers matching a regular expression.
type RenamePatternConfig struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	To      string `yaml:"to" json:"to"`
}

// MergeConfig joins adjacent same-marker fields.
type MergeConfig struct {
	Marker    string `yaml:"marker" json:"marker"`
	Separator string `yaml:"separator" json:"separator"`
}

// SplitConfig fans one multi-valued field out into several entries. Pattern
// is a regular expression; empty selects the "; " convention.
type SplitConfig struct {
	Marker  string `yaml:"marker" json:"marker"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

// Build compiles the configuration into a runnable pipeline.
func (c PipelineConfig) Build() (Pipeline, error) {
	p := make(Pipeline, 0, len(c.Transforms))
	for i, tc := range c.Transforms {
		t, err := tc.build()
		if err != nil {
			return nil, fmt.Errorf("sfm: transform %d: %w", i, err)
		}
		p = append(p, t)
	}
	return p, nil
}

func (c TransformConfig) build() (Transform, error) {
	var out Transform
	set := 0

	if c.Rename != nil {
		set++
		if c.Rename.From == "" || c.Rename.To == "" {
			return nil, fmt.Errorf("rename needs from and to")
		}
		out = Rename{From: c.Rename.From, To: c.Rename.To}
	}
	if c.RenamePattern != nil {
		set++
		re, err := regexp.Compile(c.RenamePattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rename_pattern: %w", err)
		}
		out = RenamePattern{Pattern: re, To: c.RenamePattern.To}
	}
	if len(c.Drop) > 0 {
		set++
		out = Drop{Markers: c.Drop}
	}
	if len(c.Keep) > 0 {
		set++
		out = Keep{Markers: c.Keep}
	}
	if c.Merge != nil {
		set++
		if c.Merge.Marker == "" {
			return nil, fmt.Errorf("merge needs a marker")
		}
		out = MergeAdjacent{Marker: c.Merge.Marker, Separator: c.Merge.Separator}
	}
	if c.Split != nil {
		set++
		if c.Split.Marker == "" {
			return nil, fmt.Errorf("split needs a marker")
		}
		var re *regexp.Regexp
		if c.Split.Pattern != "" {
			var err error
			re, err = regexp.Compile(c.Split.Pattern)
			if err != nil {
				return nil, fmt.Errorf("split: %w", err)
			}
		}
		out = Split{Marker: c.Split.Marker, Pattern: re}
	}

	if set != 1 {
		return nil, fmt.Errorf("step must set exactly one of rename, rename_pattern, drop, keep, merge, split")
	}
	return out, nil
}
