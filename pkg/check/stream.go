package check

import (
	"fmt"

	"github.com/cgast/contest/pkg/recipe"
)

// Stream compares an output expectation against captured lines. The
// expectation's Text is aligned so Text[0] corresponds to actual[Start];
// lines before Start are not examined on either side. Count limits the
// number of compared pairs when non-negative. A missing counterpart on
// either side is compared as the empty string, so unequal stream lengths
// surface as an ordinary mismatch. Returns nil when everything matched.
func Stream(label string, exp recipe.Expectation, actual []string) *Mismatch {
	if exp.Empty != nil {
		if *exp.Empty && len(actual) > 0 {
			return &Mismatch{
				Kind:   KindEmptiness,
				Stream: label,
				Message: fmt.Sprintf("Expected %s to be empty, received %d line(s)",
					label, len(actual)),
			}
		}
		if !*exp.Empty && len(actual) == 0 {
			return &Mismatch{
				Kind:    KindEmptiness,
				Stream:  label,
				Message: fmt.Sprintf("Expected %s to be non-empty, received nothing", label),
			}
		}
		// Emptiness resolved; the positional pass does not run.
		return nil
	}

	n := exp.Count
	if n < 0 {
		n = len(exp.Text)
		if rest := len(actual) - exp.Start; rest > n {
			n = rest
		}
	}

	for j := 0; j < n; j++ {
		e, r := "", ""
		if j < len(exp.Text) {
			e = exp.Text[j]
		}
		if i := exp.Start + j; i < len(actual) {
			r = actual[i]
		}
		if e != r {
			return &Mismatch{
				Kind:     KindStream,
				Stream:   label,
				Line:     exp.Start + j,
				Offset:   Divergence(e, r),
				Expected: e,
				Received: r,
			}
		}
	}
	return nil
}
