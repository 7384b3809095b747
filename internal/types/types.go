// Package types defines every cross-package data structure used by the flat CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// CandidateFile is a file discovered by the walker. Path is relative to the
// repository root and uses forward slashes. Included is only changed by a selector.
type CandidateFile struct {
	Path     string
	Included bool
}

// TreeNode represents one entry of the repository structure diagram.
// Path is relative to the repository root; the root node has an empty Path.
type TreeNode struct {
	Path     string
	Name     string
	Type     string
	Children []*TreeNode
}

// OutputSummary captures aggregate information about a rendered document.
type OutputSummary struct {
	IncludedFiles int
	SkippedFiles  int
	TotalBytes    int64
}

// IncludedPaths returns the paths of candidates marked as included, preserving order.
func IncludedPaths(candidates []CandidateFile) []string {
	includedPaths := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Included {
			includedPaths = append(includedPaths, candidate.Path)
		}
	}
	return includedPaths
}
