// Package config loads ignore files and the application configuration file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/flat/internal/utils"
)

const (
	commentPrefix = "#"

	errorLoadIgnoreFormat = "loading %s from %s: %w"
	errorLoadExtraFormat  = "loading ignore file %s: %w"
)

// IgnoreSources selects which ignore files contribute patterns for a repository root.
type IgnoreSources struct {
	UseGitignore      bool
	UseIgnoreFile     bool
	ExtraIgnoreFiles  []string
	ExclusionPatterns []string
}

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns in file order.
// Blank lines and comment lines are dropped. A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string, logger *zap.Logger) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			logger.Warn("failed to close ignore file", zap.String("path", ignoreFilePath), zap.Error(closeError))
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == utils.EmptyString || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadCombinedIgnorePatterns aggregates patterns from the root .ignore and .gitignore files,
// any extra ignore files, and the explicit exclusion patterns, in that order, without duplicates.
func LoadCombinedIgnorePatterns(absoluteRootPath string, sources IgnoreSources, logger *zap.Logger) ([]string, error) {
	var combinedPatterns []string

	if sources.UseIgnoreFile {
		ignoreFilePatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(absoluteRootPath, utils.IgnoreFileName), logger)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFormat, utils.IgnoreFileName, absoluteRootPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, ignoreFilePatterns...)
	}

	if sources.UseGitignore {
		gitIgnoreFilePatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(absoluteRootPath, utils.GitIgnoreFileName), logger)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFormat, utils.GitIgnoreFileName, absoluteRootPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, gitIgnoreFilePatterns...)
	}

	for _, extraIgnoreFile := range sources.ExtraIgnoreFiles {
		extraPatterns, loadError := LoadIgnoreFilePatterns(extraIgnoreFile, logger)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadExtraFormat, extraIgnoreFile, loadError)
		}
		combinedPatterns = append(combinedPatterns, extraPatterns...)
	}

	for _, exclusionPattern := range sources.ExclusionPatterns {
		trimmedPattern := strings.TrimSpace(exclusionPattern)
		if trimmedPattern == utils.EmptyString {
			continue
		}
		combinedPatterns = append(combinedPatterns, trimmedPattern)
	}

	return utils.DeduplicatePatterns(combinedPatterns), nil
}
