// Package testutil provides the golden-file helper used by lowering
// snapshot tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// UpdateGoldens controls whether golden files are rewritten instead of
// compared. Set via: UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenPath returns the path of a golden file relative to the test's
// working directory.
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden")
}

// CompareWithGolden compares a rendered program against its golden
// file, ignoring trailing whitespace. With UpdateGoldens set it writes
// the file instead.
func CompareWithGolden(t *testing.T, feature, name, actual string) {
	t.Helper()

	goldenPath := GoldenPath(feature, name)
	actual = normalize(actual)

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, []byte(actual+"\n"), 0o644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expectedBytes, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nrun with UPDATE_GOLDENS=true to create it", goldenPath)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	expected := normalize(string(expectedBytes))
	if expected != actual {
		t.Errorf("golden mismatch for %s/%s\n%s", feature, name, diff(expected, actual))
	}
}

// normalize strips trailing whitespace per line and surrounding blank
// lines so editors touching the files cannot break comparisons.
func normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// diff renders a line-by-line comparison of two programs.
func diff(expected, actual string) string {
	expLines := strings.Split(expected, "\n")
	actLines := strings.Split(actual, "\n")

	maxLines := len(expLines)
	if len(actLines) > maxLines {
		maxLines = len(actLines)
	}

	var b strings.Builder
	for i := 0; i < maxLines; i++ {
		var expLine, actLine string
		if i < len(expLines) {
			expLine = expLines[i]
		}
		if i < len(actLines) {
			actLine = actLines[i]
		}

		if expLine == actLine {
			b.WriteString("  " + expLine + "\n")
			continue
		}
		if expLine != "" || i < len(expLines) {
			b.WriteString("- " + expLine + "\n")
		}
		if actLine != "" || i < len(actLines) {
			b.WriteString("+ " + actLine + "\n")
		}
	}
	return b.String()
}
