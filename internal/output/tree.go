package output

import (
	"strings"

	"github.com/temirov/flat/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	excludedMarker = " (excluded)"
)

// RenderTree returns the box-drawing diagram of the children of rootNode.
// File nodes whose paths are in excluded are marked.
func RenderTree(rootNode *types.TreeNode, excluded map[string]struct{}) string {
	var builder strings.Builder
	writeTreeNode(&builder, rootNode, "", excluded)
	return builder.String()
}

func writeTreeNode(builder *strings.Builder, treeNode *types.TreeNode, prefix string, excluded map[string]struct{}) {
	if treeNode == nil || treeNode.Type != types.NodeTypeDirectory || len(treeNode.Children) == 0 {
		return
	}
	numberOfChildren := len(treeNode.Children)
	for index, child := range treeNode.Children {
		isLastChild := index == numberOfChildren-1
		connector := treeBranchConnector
		newPrefix := prefix + treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			newPrefix = prefix + treeLastPadding
		}
		builder.WriteString(prefix + connector + child.Name)
		if _, isExcluded := excluded[child.Path]; isExcluded && child.Type == types.NodeTypeFile {
			builder.WriteString(excludedMarker)
		}
		builder.WriteString("\n")
		if child.Type == types.NodeTypeDirectory {
			writeTreeNode(builder, child, newPrefix, excluded)
		}
	}
}
