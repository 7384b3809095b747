package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/flat/internal/types"
	"github.com/temirov/flat/internal/utils"
)

// BuildTree builds the structure diagram of the repository. It contains every
// non-ignored directory and file regardless of extension. Subdirectories that cannot
// be read appear without children and are reported as warnings.
func (treeBuilder *TreeBuilder) BuildTree(rootName string) (*types.TreeNode, error) {
	rootNode := &types.TreeNode{
		Path: utils.EmptyString,
		Name: rootName,
		Type: types.NodeTypeDirectory,
	}
	children, buildError := treeBuilder.buildTreeNodes(utils.EmptyString)
	if buildError != nil {
		return nil, buildError
	}
	rootNode.Children = children
	return rootNode, nil
}

// buildTreeNodes recursively builds child nodes for relativeDirectory.
func (treeBuilder *TreeBuilder) buildTreeNodes(relativeDirectory string) ([]*types.TreeNode, error) {
	entries, listError := treeBuilder.listEntries(relativeDirectory)
	if listError != nil {
		return nil, listError
	}

	nodes := make([]*types.TreeNode, 0, len(entries))
	for _, entry := range entries {
		node := &types.TreeNode{
			Path: entry.relativePath,
			Name: entry.name,
			Type: types.NodeTypeFile,
		}
		if entry.isDirectory {
			node.Type = types.NodeTypeDirectory
			childNodes, buildError := treeBuilder.buildTreeNodes(entry.relativePath)
			if buildError != nil {
				treeBuilder.logger().Warn(warningSkipSubdirectory, zap.String("path", entry.relativePath), zap.Error(buildError))
			} else {
				node.Children = childNodes
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
