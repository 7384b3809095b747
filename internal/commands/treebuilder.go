package commands

import (
	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/temirov/flat/internal/ignore"
	"github.com/temirov/flat/internal/languages"
)

// TreeBuilder walks a repository using configured options.
// Paths handed to FileSystem are relative to the repository root.
type TreeBuilder struct {
	FileSystem billy.Filesystem
	Matcher    ignore.Matcher
	Languages  languages.Table
	Logger     *zap.Logger
}

func (treeBuilder *TreeBuilder) logger() *zap.Logger {
	if treeBuilder.Logger == nil {
		return zap.NewNop()
	}
	return treeBuilder.Logger
}
