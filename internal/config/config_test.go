package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/flat/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnoreFilePatternsSkipsCommentsAndBlanks verifies line filtering.
func TestLoadIgnoreFilePatternsSkipsCommentsAndBlanks(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	ignorePath := filepath.Join(rootDirectory, utils.GitIgnoreFileName)
	writeTestFile(testingHandle, ignorePath, "# comment\n\n*.log\n  tmp/  \n")

	patterns, loadError := LoadIgnoreFilePatterns(ignorePath, zap.NewNop())
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns failed: %v", loadError)
	}
	expected := []string{"*.log", "tmp/"}
	if !reflect.DeepEqual(patterns, expected) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", patterns, expected)
	}
}

// TestLoadIgnoreFilePatternsMissingFile verifies that an absent file is not an error.
func TestLoadIgnoreFilePatternsMissingFile(testingHandle *testing.T) {
	patterns, loadError := LoadIgnoreFilePatterns(filepath.Join(testingHandle.TempDir(), "absent"), zap.NewNop())
	if loadError != nil {
		testingHandle.Fatalf("expected no error, got %v", loadError)
	}
	if len(patterns) != 0 {
		testingHandle.Fatalf("expected no patterns, got %v", patterns)
	}
}

// TestLoadCombinedIgnorePatterns verifies source ordering, toggles, and deduplication.
func TestLoadCombinedIgnorePatterns(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.IgnoreFileName), "vendor/\n*.tmp\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "*.log\n*.tmp\n")
	extraPath := filepath.Join(testingHandle.TempDir(), "extra.ignore")
	writeTestFile(testingHandle, extraPath, "coverage/\n")

	testCases := []struct {
		name     string
		sources  IgnoreSources
		expected []string
	}{
		{
			name:     "all sources",
			sources:  IgnoreSources{UseGitignore: true, UseIgnoreFile: true, ExtraIgnoreFiles: []string{extraPath}, ExclusionPatterns: []string{" docs ", "", "*.log"}},
			expected: []string{"vendor/", "*.tmp", "*.log", "coverage/", "docs"},
		},
		{
			name:     "gitignore only",
			sources:  IgnoreSources{UseGitignore: true},
			expected: []string{"*.log", "*.tmp"},
		},
		{
			name:     "nothing enabled",
			sources:  IgnoreSources{},
			expected: []string{},
		},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			patterns, loadError := LoadCombinedIgnorePatterns(rootDirectory, testCase.sources, zap.NewNop())
			if loadError != nil {
				subTest.Fatalf("LoadCombinedIgnorePatterns failed: %v", loadError)
			}
			if !reflect.DeepEqual(patterns, testCase.expected) {
				subTest.Fatalf("unexpected patterns: got %v want %v", patterns, testCase.expected)
			}
		})
	}
}

// TestLoadCombinedIgnorePatternsMissingExtraFile verifies that a missing extra file is tolerated.
func TestLoadCombinedIgnorePatternsMissingExtraFile(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	sources := IgnoreSources{ExtraIgnoreFiles: []string{filepath.Join(rootDirectory, "missing.ignore")}}
	patterns, loadError := LoadCombinedIgnorePatterns(rootDirectory, sources, zap.NewNop())
	if loadError != nil {
		testingHandle.Fatalf("expected no error, got %v", loadError)
	}
	if len(patterns) != 0 {
		testingHandle.Fatalf("expected no patterns, got %v", patterns)
	}
}
