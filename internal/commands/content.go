package commands

import (
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/flat/internal/types"
	"github.com/temirov/flat/internal/utils"
)

const readmePrefix = "readme"

// CollectCandidates returns every file eligible for flattening, depth-first and
// lexicographically ordered, each marked as included. A file is eligible when it
// is not ignored and its extension is supported. readmePath, as returned by
// FindReadme, is eligible regardless of its extension.
func (treeBuilder *TreeBuilder) CollectCandidates(readmePath string) ([]types.CandidateFile, error) {
	var candidates []types.CandidateFile
	walkError := treeBuilder.walkFiles(utils.EmptyString, func(entry walkEntry) {
		if entry.relativePath != readmePath && !treeBuilder.Languages.Supports(entry.name) {
			treeBuilder.logger().Debug("unsupported extension", zap.String("path", entry.relativePath))
			return
		}
		candidates = append(candidates, types.CandidateFile{Path: entry.relativePath, Included: true})
	})
	if walkError != nil {
		return nil, walkError
	}
	return candidates, nil
}

// FindReadme returns the relative path of the first non-ignored root file whose
// name starts with "readme" in any letter case, or an empty string when none exists.
func (treeBuilder *TreeBuilder) FindReadme() (string, error) {
	entries, listError := treeBuilder.listEntries(utils.EmptyString)
	if listError != nil {
		return utils.EmptyString, listError
	}
	for _, entry := range entries {
		if !entry.isDirectory && strings.HasPrefix(strings.ToLower(entry.name), readmePrefix) {
			return entry.relativePath, nil
		}
	}
	return utils.EmptyString, nil
}
