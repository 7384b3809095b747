// Package commands contains the repository traversal used to build candidates and the structure diagram.
package commands

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/flat/internal/utils"
)

const (
	rootDirectoryPath = "."

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"

	warningSkipSubdirectory = "skipping subdirectory"
	warningSkipEntry        = "skipping unreadable entry"
)

// walkEntry is a directory entry that survived the ignore rules.
type walkEntry struct {
	relativePath string
	name         string
	isDirectory  bool
}

// listEntries returns the non-ignored entries of relativeDirectory sorted by name.
// Symbolic links are resolved so that links to directories are descended into.
func (treeBuilder *TreeBuilder) listEntries(relativeDirectory string) ([]walkEntry, error) {
	directoryPath := rootDirectoryPath
	if relativeDirectory != utils.EmptyString {
		directoryPath = filepath.FromSlash(relativeDirectory)
	}
	fileInfos, readDirectoryError := treeBuilder.FileSystem.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}
	sort.Slice(fileInfos, func(leftIndex, rightIndex int) bool {
		return fileInfos[leftIndex].Name() < fileInfos[rightIndex].Name()
	})

	entries := make([]walkEntry, 0, len(fileInfos))
	for _, fileInfo := range fileInfos {
		relativePath := path.Join(relativeDirectory, fileInfo.Name())
		isDirectory := fileInfo.IsDir()
		if fileInfo.Mode()&os.ModeSymlink != 0 {
			targetInfo, statError := treeBuilder.FileSystem.Stat(filepath.FromSlash(relativePath))
			if statError != nil {
				treeBuilder.logger().Warn(warningSkipEntry, zap.String("path", relativePath), zap.Error(statError))
				continue
			}
			isDirectory = targetInfo.IsDir()
		}
		if treeBuilder.Matcher.IsIgnored(relativePath, isDirectory) {
			treeBuilder.logger().Debug("ignored", zap.String("path", relativePath), zap.Bool("directory", isDirectory))
			continue
		}
		entries = append(entries, walkEntry{
			relativePath: relativePath,
			name:         fileInfo.Name(),
			isDirectory:  isDirectory,
		})
	}
	return entries, nil
}

// walkFiles visits every non-ignored file depth-first in lexicographic order.
// Ignored directories are never read. A subdirectory that cannot be read is
// skipped with a warning; an unreadable root is an error.
func (treeBuilder *TreeBuilder) walkFiles(relativeDirectory string, visit func(walkEntry)) error {
	entries, listError := treeBuilder.listEntries(relativeDirectory)
	if listError != nil {
		return listError
	}
	for _, entry := range entries {
		if !entry.isDirectory {
			visit(entry)
			continue
		}
		if walkError := treeBuilder.walkFiles(entry.relativePath, visit); walkError != nil {
			treeBuilder.logger().Warn(warningSkipSubdirectory, zap.String("path", entry.relativePath), zap.Error(walkError))
		}
	}
	return nil
}
