package recipe

import "strings"

// SplitLines splits s into lines, each retaining its trailing newline.
// The final fragment is returned as-is when it lacks a terminator.
// An empty string yields no lines.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// TerminateLines ensures every item carries a trailing newline. Recipe
// authors writing line sequences rarely spell the terminator out, but the
// captured output always has one.
func TerminateLines(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	lines := make([]string, len(items))
	for i, item := range items {
		if strings.HasSuffix(item, "\n") {
			lines[i] = item
		} else {
			lines[i] = item + "\n"
		}
	}
	return lines
}
