// Package ignore decides which repository paths are excluded from flattening.
package ignore

import (
	"path"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"

	"github.com/temirov/flat/internal/config"
	"github.com/temirov/flat/internal/utils"
)

const (
	hiddenPrefix     = "."
	negationPrefix   = "!"
	negationDropText = "ignoring negated pattern; negation is not supported"
)

// Matcher reports whether a path relative to the repository root is excluded.
type Matcher interface {
	IsIgnored(relativePath string, isDirectory bool) bool
}

// Exclusions lists the rules applied regardless of any ignore file.
type Exclusions struct {
	// HiddenPaths excludes every path with a segment starting with a dot.
	HiddenPaths bool
	// DirectoryNames excludes directories with these exact names at any depth.
	DirectoryNames []string
	// FilePatterns excludes files whose base name matches one of these globs.
	FilePatterns []string
}

// DefaultExclusions returns the built-in exclusion rules: hidden paths, build and
// dependency directories, lockfiles, and earlier flattened output.
func DefaultExclusions() Exclusions {
	return Exclusions{
		HiddenPaths:    true,
		DirectoryNames: []string{"build", "dist", "node_modules", "__pycache__"},
		FilePatterns:   []string{"*.lock", "*-lock.json", "*" + utils.FlattenedFileSuffix},
	}
}

// Evaluator combines built-in exclusions with gitignore patterns matched the way
// Git matches them. A leading or inner slash anchors a pattern at the repository root.
type Evaluator struct {
	exclusions     Exclusions
	directoryNames map[string]struct{}
	matcher        gitignore.Matcher
}

// NewEvaluator compiles patterns into an Evaluator. Negated patterns are dropped
// with a warning so that a later pattern can never re-include an excluded path.
func NewEvaluator(patterns []string, exclusions Exclusions, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	acceptedPatterns := make([]gitignore.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == utils.EmptyString {
			continue
		}
		if strings.HasPrefix(trimmedPattern, negationPrefix) {
			logger.Warn(negationDropText, zap.String("pattern", trimmedPattern))
			continue
		}
		acceptedPatterns = append(acceptedPatterns, gitignore.ParsePattern(trimmedPattern, nil))
	}

	directoryNames := make(map[string]struct{}, len(exclusions.DirectoryNames))
	for _, directoryName := range exclusions.DirectoryNames {
		directoryNames[directoryName] = struct{}{}
	}

	return &Evaluator{
		exclusions:     exclusions,
		directoryNames: directoryNames,
		matcher:        gitignore.NewMatcher(acceptedPatterns),
	}
}

// Load reads the ignore files selected by sources under absoluteRootPath and
// returns an Evaluator applying them together with exclusions.
func Load(absoluteRootPath string, sources config.IgnoreSources, exclusions Exclusions, logger *zap.Logger) (*Evaluator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	patterns, loadError := config.LoadCombinedIgnorePatterns(absoluteRootPath, sources, logger)
	if loadError != nil {
		return nil, loadError
	}
	logger.Debug("compiled ignore patterns", zap.Strings("patterns", patterns))
	return NewEvaluator(patterns, exclusions, logger), nil
}

// IsIgnored reports whether relativePath is excluded. Every segment of the path is
// checked, so a file below an excluded directory is excluded even when evaluated alone.
// The repository root itself is never ignored.
func (evaluator *Evaluator) IsIgnored(relativePath string, isDirectory bool) bool {
	normalizedPath := utils.NormalizeRelativePath(relativePath)
	segments := utils.SplitPathSegments(normalizedPath)
	if len(segments) == 0 {
		return false
	}

	lastIndex := len(segments) - 1
	for segmentIndex, segment := range segments {
		if evaluator.exclusions.HiddenPaths && strings.HasPrefix(segment, hiddenPrefix) {
			return true
		}
		isDirectorySegment := segmentIndex < lastIndex || isDirectory
		if _, excluded := evaluator.directoryNames[segment]; excluded && isDirectorySegment {
			return true
		}
	}

	if !isDirectory {
		for _, filePattern := range evaluator.exclusions.FilePatterns {
			isMatched, matchError := path.Match(filePattern, segments[lastIndex])
			if matchError == nil && isMatched {
				return true
			}
		}
	}

	return evaluator.matcher.Match(segments, isDirectory)
}

var _ Matcher = (*Evaluator)(nil)
