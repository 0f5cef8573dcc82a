package profiling

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PIIReplacement is substituted for directory components of absolute paths
// when a profile leaves a non-development machine.
const PIIReplacement = "pii-removed"

// CallFrame locates a sampled stack frame in the profiled process.
type CallFrame struct {
	FunctionName string `json:"functionName"`
	URL          string `json:"url"`
	LineNumber   int    `json:"lineNumber"`
	ColumnNumber int    `json:"columnNumber"`
}

// Node is one entry of the profile call tree.
type Node struct {
	ID        int       `json:"id"`
	CallFrame CallFrame `json:"callFrame"`
	HitCount  int       `json:"hitCount"`
	Children  []int     `json:"children,omitempty"`
}

// Profile is the sampled CPU profile returned by a desktop debug endpoint.
type Profile struct {
	StartTime  int64  `json:"startTime"`
	EndTime    int64  `json:"endTime"`
	Nodes      []Node `json:"nodes"`
	Samples    []int  `json:"samples"`
	TimeDeltas []int  `json:"timeDeltas"`
}

// RewriteAbsolutePaths strips the directory portion of every absolute frame
// URL, keeping only the base name under a fixed replacement prefix.
func RewriteAbsolutePaths(p *Profile, replacement string) {
	if p == nil {
		return
	}
	if replacement == "" {
		replacement = PIIReplacement
	}
	for i := range p.Nodes {
		url := p.Nodes[i].CallFrame.URL
		if !isAbsoluteURL(url) {
			continue
		}
		p.Nodes[i].CallFrame.URL = path.Join(replacement, filepath.Base(url))
	}
}

func isAbsoluteURL(url string) bool {
	if url == "" {
		return false
	}
	if strings.HasPrefix(url, "file://") {
		return true
	}
	return filepath.IsAbs(url)
}

// Writer persists profiles under a shared file-name prefix. Scrubbed
// profiles get an extra .txt suffix so they are not mistaken for faithful
// captures.
type Writer struct {
	Prefix string
	Scrub  bool
}

// Save writes the profile for the named process and returns the file path.
func (w Writer) Save(p *Profile, name string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("no profile captured for %s", name)
	}
	if w.Scrub {
		RewriteAbsolutePaths(p, PIIReplacement)
	}

	target := fmt.Sprintf("%s-%s.cpuprofile", w.Prefix, name)
	if w.Scrub {
		target += ".txt"
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode %s profile: %w", name, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s profile: %w", name, err)
	}
	return target, nil
}
