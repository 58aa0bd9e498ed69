package shell

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"lineshell/pkg/commander"
	"lineshell/pkg/linetypes"
)

// patternsVersion is the only supported reply-pattern file format.
const patternsVersion = 1

// PatternFile is a YAML file declaring reply patterns: regexes with
// capture groups paired with reply templates.
//
// Example:
//
//	version: 1
//	patterns:
//	  - id: greet
//	    regex: 'hello (?P<name>\w+)'
//	    reply: 'hi there, ${name}'
//	  - id: sum
//	    regex: 'repeat (.+)'
//	    reply: '$1'
type PatternFile struct {
	// Version is the file format version. Currently only version 1 is
	// supported.
	Version int `yaml:"version"`

	// Patterns is the list of reply-pattern definitions.
	Patterns []ReplyPattern `yaml:"patterns"`
}

// ReplyPattern pairs a regex with a reply template. Named capture
// groups are referenced in the template as ${name}; positional groups
// as $1..$n.
type ReplyPattern struct {
	// ID uniquely identifies the pattern within the file and doubles as
	// its help label.
	ID string `yaml:"id"`

	// Regex is matched against each input line (whole-line anchored,
	// like every other handler).
	Regex string `yaml:"regex"`

	// Reply is the template written to the output sink on match.
	Reply string `yaml:"reply"`
}

// LoadPatterns reads and validates a reply-pattern file.
func LoadPatterns(path string) (*PatternFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}

	var file PatternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pattern file %s: %w", path, err)
	}

	if file.Version != patternsVersion {
		return nil, fmt.Errorf("pattern file %s: unsupported version %d", path, file.Version)
	}

	seen := make(map[string]bool)
	for i, p := range file.Patterns {
		if p.ID == "" {
			return nil, fmt.Errorf("pattern file %s: pattern %d has no id", path, i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("pattern file %s: duplicate pattern id %q", path, p.ID)
		}
		seen[p.ID] = true
		if p.Regex == "" {
			return nil, fmt.Errorf("pattern file %s: pattern %q has no regex", path, p.ID)
		}
	}

	return &file, nil
}

// Register turns every declared pattern into a function-backed handler
// on cmdr. An invalid regex surfaces as a compile error naming the
// pattern id.
func (f *PatternFile) Register(cmdr *commander.Commander) error {
	for _, p := range f.Patterns {
		reply := p.Reply
		action := func(_ linetypes.Handler, m linetypes.MatchResult, _ string) error {
			return cmdr.Writer().WriteLine(expandReply(reply, m))
		}
		if err := cmdr.AddFunc(p.Regex, action, p.ID); err != nil {
			return fmt.Errorf("pattern %q: %w", p.ID, err)
		}
	}
	return nil
}

// expandReply substitutes ${name} named captures and $1..$n positional
// captures into the reply template.
func expandReply(template string, m linetypes.MatchResult) string {
	return os.Expand(template, func(key string) string {
		if idx, err := strconv.Atoi(key); err == nil {
			return m.Group(idx - 1)
		}
		return m.Get(key)
	})
}
