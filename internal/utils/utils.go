// Package utils contains general helper functions used across the flat tool.
package utils

import (
	"path"
	"strings"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// NormalizeRelativePath converts a path relative to the repository root into
// forward-slash form without leading "./" or "/" markers. The root itself
// normalizes to the empty string.
func NormalizeRelativePath(relativePath string) string {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	normalizedPath = path.Clean(normalizedPath)
	normalizedPath = strings.TrimPrefix(normalizedPath, pathSegmentSeparator)
	if normalizedPath == "." {
		return EmptyString
	}
	return normalizedPath
}

// SplitPathSegments splits a normalized relative path into its segments.
func SplitPathSegments(relativePath string) []string {
	normalizedPath := NormalizeRelativePath(relativePath)
	if normalizedPath == EmptyString {
		return nil
	}
	return strings.Split(normalizedPath, pathSegmentSeparator)
}
