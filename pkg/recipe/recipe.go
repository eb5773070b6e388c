package recipe

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Matrix is a complete test recipe: a default executable plus an ordered
// collection of test cases. Cases run in declaration order.
type Matrix struct {
	Executable string
	Cases      []Case
}

// Case describes one configured invocation of the target program and the
// checks applied to its outputs.
type Case struct {
	Name       string
	Executable string            `yaml:"executable"`
	Argv       []string          `yaml:"argv"`
	Stdin      Input             `yaml:"stdin"`
	Stdout     *Expectation      `yaml:"stdout"`
	Stderr     *Expectation      `yaml:"stderr"`
	ReturnCode *int              `yaml:"return-code"`
	Timeout    float64           `yaml:"timeout"` // seconds, 0 = unbounded
	Env        map[string]string `yaml:"env"`
	ScrubEnv   bool              `yaml:"scrub-env"`
	Resources  []Resource        `yaml:"resources"`
	Setup      []string          `yaml:"setup"`
	Ofstreams  []FileExpectation `yaml:"ofstreams"`
	ExtraTests []string          `yaml:"extra-tests"`
}

// Command returns the effective command string for the case, falling back to
// the matrix default when the case does not override it.
func (c Case) Command(matrixDefault string) string {
	if c.Executable != "" {
		return c.Executable
	}
	return matrixDefault
}

// Resource is a fixture-copy directive applied before a case executes.
// Src is resolved relative to the suite root; Dst relative to the case
// working directory and defaults to the base name of Src.
type Resource struct {
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`
}

// Input is the stdin fed to the subprocess. In YAML it may be a literal
// string or a sequence of lines.
type Input struct {
	Text string
}

// UnmarshalYAML accepts either a scalar or a sequence of lines. Sequence
// items are delivered as complete lines, each with a trailing newline.
func (in *Input) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&in.Text)
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return err
		}
		in.Text = ""
		for _, line := range lines {
			in.Text += line + "\n"
		}
		return nil
	default:
		return fmt.Errorf("stdin: expected string or sequence, got %s", kindName(node.Kind))
	}
}

// Expectation describes the expected content of an output stream. Text holds
// the lines to compare, each retaining its trailing line terminator. Start is
// the 0-based index in the actual output where Text[0] is expected; lines
// before it are not examined. Count limits the number of compared lines
// (-1 = unbounded). Empty, when set, asserts that the stream is (true) or is
// not (false) empty instead of running the positional comparison.
type Expectation struct {
	Text  []string
	Start int
	Count int
	Empty *bool
}

// UnmarshalYAML accepts a scalar (the full expected text), a sequence of
// lines, or a mapping with text/start/count/empty keys.
func (e *Expectation) UnmarshalYAML(node *yaml.Node) error {
	e.Start = 0
	e.Count = -1
	e.Empty = nil

	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		e.Text = SplitLines(s)
		return nil
	case yaml.SequenceNode:
		return decodeLines(node, &e.Text)
	case yaml.MappingNode:
		var raw struct {
			Text  yaml.Node `yaml:"text"`
			Start int       `yaml:"start"`
			Count *int      `yaml:"count"`
			Empty *bool     `yaml:"empty"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		e.Start = raw.Start
		if raw.Count != nil {
			e.Count = *raw.Count
		}
		e.Empty = raw.Empty
		if !raw.Text.IsZero() {
			switch raw.Text.Kind {
			case yaml.ScalarNode:
				var s string
				if err := raw.Text.Decode(&s); err != nil {
					return err
				}
				e.Text = SplitLines(s)
			case yaml.SequenceNode:
				if err := decodeLines(&raw.Text, &e.Text); err != nil {
					return err
				}
			default:
				return fmt.Errorf("text: expected string or sequence, got %s", kindName(raw.Text.Kind))
			}
		}
		return nil
	default:
		return fmt.Errorf("expectation: expected string, sequence or mapping, got %s", kindName(node.Kind))
	}
}

// Output file types.
const (
	TypeText   = "text"
	TypeBinary = "binary"
	TypeImage  = "image"
)

// FileExpectation declares an artifact the subprocess must leave behind.
// File is the reference artifact, resolved relative to the suite root.
// TestFile is the produced artifact, resolved inside the case working
// directory. The window and emptiness fields apply to text and binary
// comparisons the same way they do for streams.
type FileExpectation struct {
	Type     string
	File     string
	TestFile string
	Start    int
	Count    int
	Empty    *bool
}

// UnmarshalYAML decodes an ofstream entry. "base-file" is accepted as an
// alias for "file" for recipes written by older recorders.
func (f *FileExpectation) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Type     string `yaml:"type"`
		File     string `yaml:"file"`
		BaseFile string `yaml:"base-file"`
		TestFile string `yaml:"test-file"`
		Start    int    `yaml:"start"`
		Count    *int   `yaml:"count"`
		Empty    *bool  `yaml:"empty"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	f.Type = raw.Type
	if f.Type == "" {
		f.Type = TypeText
	}
	f.File = raw.File
	if f.File == "" {
		f.File = raw.BaseFile
	}
	f.TestFile = raw.TestFile
	f.Start = raw.Start
	f.Count = -1
	if raw.Count != nil {
		f.Count = *raw.Count
	}
	f.Empty = raw.Empty
	return nil
}

// Window returns the stream expectation equivalent of the file expectation,
// with the reference lines already sliced to the declared window so they
// align with the produced artifact at Start.
func (f FileExpectation) Window(refLines []string) Expectation {
	text := refLines
	if f.Start < len(text) {
		text = text[f.Start:]
	} else {
		text = nil
	}
	if f.Count >= 0 && f.Count < len(text) {
		text = text[:f.Count]
	}
	return Expectation{Text: text, Start: f.Start, Count: f.Count, Empty: f.Empty}
}

// UnmarshalYAML decodes a full recipe while preserving the declaration order
// of test-cases, which a plain map decode would lose.
func (m *Matrix) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("recipe: expected mapping, got %s", kindName(node.Kind))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "executable":
			if err := value.Decode(&m.Executable); err != nil {
				return err
			}
		case "test-cases":
			if value.Kind != yaml.MappingNode {
				return fmt.Errorf("test-cases: expected mapping, got %s", kindName(value.Kind))
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				name, body := value.Content[j], value.Content[j+1]
				var tc Case
				if err := body.Decode(&tc); err != nil {
					return fmt.Errorf("test case %q: %w", name.Value, err)
				}
				tc.Name = name.Value
				m.Cases = append(m.Cases, tc)
			}
		}
	}
	return nil
}

func decodeLines(node *yaml.Node, out *[]string) error {
	var items []string
	if err := node.Decode(&items); err != nil {
		return err
	}
	*out = TerminateLines(items)
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
