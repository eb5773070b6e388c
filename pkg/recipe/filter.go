package recipe

import (
	"fmt"
	"regexp"
)

// Filter applies include and exclude regex patterns to the case list,
// returning the cases to run in their original order. A name matching any
// exclude pattern is dropped unconditionally; remaining cases are kept when
// no include patterns are given, otherwise only when matching at least one.
func Filter(cases []Case, includes, excludes []string) ([]Case, error) {
	inc, err := compilePatterns(includes)
	if err != nil {
		return nil, fmt.Errorf("include filter: %w", err)
	}
	exc, err := compilePatterns(excludes)
	if err != nil {
		return nil, fmt.Errorf("exclude filter: %w", err)
	}

	var kept []Case
	for _, c := range cases {
		if matchAny(exc, c.Name) {
			continue
		}
		if len(inc) == 0 || matchAny(inc, c.Name) {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

func matchAny(patterns []*regexp.Regexp, name string) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
