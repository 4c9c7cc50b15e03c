package dpkg

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Diversion is one entry of the dpkg diversion registry.
type Diversion struct {
	// Path is the original location a package would install to.
	Path string `json:"path"`

	// Target is where the displaced file copy is relocated.
	Target string `json:"divert"`

	// Holder is the owning package, or empty for a local diversion.
	Holder string `json:"package,omitempty"`
}

// --list output comes in two shapes:
//
//	diversion of /etc/screenrc to /etc/screenrc.distrib by branding
//	local diversion of /etc/screenrc to /etc/screenrc.distrib
var (
	packageLine = regexp.MustCompile(`^diversion of (.*) to (.*) by (\S+)$`)
	localLine   = regexp.MustCompile(`^local diversion of (.*) to (.*)$`)
)

// parseListLine parses one line of dpkg-divert --list output.
func parseListLine(line string) (Diversion, bool) {
	if m := localLine.FindStringSubmatch(line); m != nil {
		return Diversion{Path: m[1], Target: m[2]}, true
	}
	if m := packageLine.FindStringSubmatch(line); m != nil {
		// Holder LOCAL should not appear here (dpkg prints the "local
		// diversion" form instead), but normalize it anyway.
		holder := m[3]
		if holder == LocalHolder {
			holder = ""
		}
		return Diversion{Path: m[1], Target: m[2], Holder: holder}, true
	}
	return Diversion{}, false
}

// List returns all diversions matching the glob pattern ("*" for all).
func (t *Tool) List(ctx context.Context, pattern string) ([]Diversion, error) {
	if pattern == "" {
		pattern = "*"
	}
	args := append(t.base(), "--list", pattern)
	out, err := t.output(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("list diversions: %w", err)
	}

	var diversions []Diversion
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		d, ok := parseListLine(line)
		if !ok {
			return nil, fmt.Errorf("list diversions: unexpected output line %q", line)
		}
		diversions = append(diversions, d)
	}
	return diversions, nil
}
