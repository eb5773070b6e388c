package recipe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML recipe file and returns the parsed test matrix.
func Load(path string) (Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Matrix{}, fmt.Errorf("read recipe %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML recipe data into a Matrix.
func Parse(data []byte) (Matrix, error) {
	var m Matrix
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Matrix{}, fmt.Errorf("parse recipe: %w", err)
	}
	return m, nil
}

// Save writes the matrix back to a YAML recipe, preserving case order and
// rendering multi-line expectations as block scalars.
func Save(m Matrix, path string) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(doc, "executable", scalar(m.Executable))

	cases := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range m.Cases {
		cases.Content = append(cases.Content, scalar(c.Name), caseNode(c))
	}
	appendPair(doc, "test-cases", cases)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write recipe %s: %w", path, err)
	}
	return nil
}

func caseNode(c Case) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	if c.Executable != "" {
		appendPair(n, "executable", scalar(c.Executable))
	}
	if c.ReturnCode != nil {
		appendPair(n, "return-code", intScalar(*c.ReturnCode))
	}
	if len(c.Argv) > 0 {
		appendPair(n, "argv", sequence(c.Argv))
	}
	if c.Stdin.Text != "" {
		appendPair(n, "stdin", sequence(stripTerminators(SplitLines(c.Stdin.Text))))
	}
	if c.Stdout != nil && len(c.Stdout.Text) > 0 {
		appendPair(n, "stdout", scalar(joinLines(c.Stdout.Text)))
	}
	if c.Stderr != nil && len(c.Stderr.Text) > 0 {
		appendPair(n, "stderr", scalar(joinLines(c.Stderr.Text)))
	}
	if len(c.Ofstreams) > 0 {
		ofs := &yaml.Node{Kind: yaml.SequenceNode}
		for _, f := range c.Ofstreams {
			entry := &yaml.Node{Kind: yaml.MappingNode}
			if f.Type != "" && f.Type != TypeText {
				appendPair(entry, "type", scalar(f.Type))
			}
			appendPair(entry, "file", scalar(f.File))
			appendPair(entry, "test-file", scalar(f.TestFile))
			ofs.Content = append(ofs.Content, entry)
		}
		appendPair(n, "ofstreams", ofs)
	}
	return n
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}

func scalar(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if containsLineBreak(s) {
		n.Style = yaml.LiteralStyle
	}
	return n
}

func intScalar(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", v)}
}

func sequence(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range items {
		n.Content = append(n.Content, scalar(item))
	}
	return n
}

func joinLines(lines []string) string {
	out := ""
	for _, line := range lines {
		out += line
	}
	return out
}

func stripTerminators(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = trimNewline(line)
	}
	return out
}

func trimNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}

func containsLineBreak(s string) bool {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			return true
		}
	}
	return false
}
