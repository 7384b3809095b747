package utils_test

import (
	"reflect"
	"testing"

	"github.com/temirov/flat/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			testName: "empty input",
			patterns: nil,
			expected: []string{},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if !reflect.DeepEqual(actual, testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected %v, got %v", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestContainsString verifies that ContainsString locates strings in a slice.
func TestContainsString(testingInstance *testing.T) {
	if !utils.ContainsString([]string{"alpha", "beta"}, "beta") {
		testingInstance.Errorf("expected beta to be found")
	}
	if utils.ContainsString([]string{"alpha", "beta"}, "gamma") {
		testingInstance.Errorf("expected gamma to be missing")
	}
}

// TestNormalizeRelativePath verifies separator and prefix normalization.
func TestNormalizeRelativePath(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		input    string
		expected string
	}{
		{testName: "root dot", input: ".", expected: ""},
		{testName: "empty", input: "", expected: ""},
		{testName: "leading dot slash", input: "./src/main.py", expected: "src/main.py"},
		{testName: "leading slash", input: "/src/main.py", expected: "src/main.py"},
		{testName: "backslashes", input: `src\pkg\file.go`, expected: "src/pkg/file.go"},
		{testName: "trailing slash", input: "node_modules/", expected: "node_modules"},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subTest *testing.T) {
			actual := utils.NormalizeRelativePath(testCase.input)
			if actual != testCase.expected {
				subTest.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

// TestSplitPathSegments verifies segment splitting of relative paths.
func TestSplitPathSegments(testingInstance *testing.T) {
	if segments := utils.SplitPathSegments("."); segments != nil {
		testingInstance.Fatalf("expected no segments for root, got %v", segments)
	}
	segments := utils.SplitPathSegments("./a/b/c.txt")
	if !reflect.DeepEqual(segments, []string{"a", "b", "c.txt"}) {
		testingInstance.Fatalf("unexpected segments %v", segments)
	}
}

// TestIsBinary verifies text and binary detection.
func TestIsBinary(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{testName: "empty", data: nil, expected: false},
		{testName: "ascii", data: []byte("print('hi')\n"), expected: false},
		{testName: "utf8", data: []byte("héllo wörld"), expected: false},
		{testName: "nul byte", data: []byte{'a', 0x00, 'b'}, expected: true},
		{testName: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, expected: true},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subTest *testing.T) {
			if actual := utils.IsBinary(testCase.data); actual != testCase.expected {
				subTest.Fatalf("expected %t, got %t", testCase.expected, actual)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "one kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
