package check

import (
	"fmt"
	"os"

	"github.com/cgast/contest/pkg/recipe"
)

// File checks one declared output artifact against its reference, dispatched
// by the declared type. refPath is the resolved reference artifact; testPath
// is the artifact the subprocess was expected to produce, inside the case
// working directory. A missing testPath is reported as a distinct
// missing-artifact failure; the caller short-circuits the remaining
// ofstream checks when it sees one. A non-nil error means the reference
// side could not be read, which still fails the case.
func File(f recipe.FileExpectation, refPath, testPath string) (*Mismatch, error) {
	if _, err := os.Stat(testPath); err != nil {
		return &Mismatch{
			Kind:    KindMissingArtifact,
			Stream:  f.TestFile,
			Message: fmt.Sprintf("Expected output file %s was not produced", f.TestFile),
		}, nil
	}

	switch f.Type {
	case recipe.TypeText:
		ref, err := os.ReadFile(refPath)
		if err != nil {
			return nil, fmt.Errorf("read reference %s: %w", refPath, err)
		}
		got, err := os.ReadFile(testPath)
		if err != nil {
			return nil, fmt.Errorf("read artifact %s: %w", testPath, err)
		}
		exp := f.Window(recipe.SplitLines(string(ref)))
		return Stream(f.File, exp, recipe.SplitLines(string(got))), nil

	case recipe.TypeBinary:
		ref, err := os.ReadFile(refPath)
		if err != nil {
			return nil, fmt.Errorf("read reference %s: %w", refPath, err)
		}
		got, err := os.ReadFile(testPath)
		if err != nil {
			return nil, fmt.Errorf("read artifact %s: %w", testPath, err)
		}
		return Bytes(f.File, f, ref, got), nil

	case recipe.TypeImage:
		ref, err := DecodeImage(refPath)
		if err != nil {
			return nil, err
		}
		got, err := DecodeImage(testPath)
		if err != nil {
			return nil, err
		}
		return Images(f.File, ref, got), nil

	default:
		return nil, fmt.Errorf("unknown ofstream type %q", f.Type)
	}
}
