// Package output renders the flattened Markdown document.
package output

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/temirov/flat/internal/languages"
	"github.com/temirov/flat/internal/types"
	"github.com/temirov/flat/internal/utils"
)

const (
	documentHeaderFormat   = "# Contents of %s source tree\n\n"
	folderStructureHeading = "## Folder Structure\n\n"
	readmeHeading          = "## README\n\n"
	fileHeadingFormat      = "## File: %s\n\n"

	readmeFallbackLanguage = "markdown"

	undecodableContentNote = "_Content omitted: the file is not valid UTF-8 text._\n\n"
	unreadableContentNote  = "_Content omitted: the file could not be read._\n\n"

	errorWriteDocumentFormat = "writing document: %w"
	errorReadFileFormat      = "reading %s: %w"

	warningUndecodableFile = "skipping content that is not valid UTF-8 text"
	warningUnreadableFile  = "skipping unreadable file"
	infoIncludedFile       = "Included file"
)

// Document describes everything needed to render one flattened artifact.
type Document struct {
	RepositoryName string
	Tree           *types.TreeNode
	// Files holds every candidate in walk order; only Included files get content sections.
	Files         []types.CandidateFile
	ReadmePath    string
	StructureOnly bool
	Languages     languages.Table
}

// RenderDocument writes document to writer. File contents are read from fileSystem
// one at a time. Files that cannot be read or decoded are replaced by a note and
// logged as warnings; only write failures are returned as errors.
func RenderDocument(writer io.Writer, fileSystem billy.Filesystem, document Document, logger *zap.Logger) (types.OutputSummary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bufferedWriter := bufio.NewWriter(writer)
	renderer := &documentRenderer{
		writer:     bufferedWriter,
		fileSystem: fileSystem,
		document:   document,
		logger:     logger,
	}
	summary := renderer.render()
	if renderer.writeError == nil {
		renderer.writeError = bufferedWriter.Flush()
	}
	if renderer.writeError != nil {
		return summary, fmt.Errorf(errorWriteDocumentFormat, renderer.writeError)
	}
	return summary, nil
}

type documentRenderer struct {
	writer     *bufio.Writer
	fileSystem billy.Filesystem
	document   Document
	logger     *zap.Logger
	writeError error
}

func (renderer *documentRenderer) writeString(text string) {
	if renderer.writeError != nil {
		return
	}
	_, renderer.writeError = renderer.writer.WriteString(text)
}

func (renderer *documentRenderer) render() types.OutputSummary {
	renderer.writeString(fmt.Sprintf(documentHeaderFormat, renderer.document.RepositoryName))
	renderer.writeString(folderStructureHeading)
	renderer.writeFenced(utils.EmptyString, []byte(RenderTree(renderer.document.Tree, excludedPaths(renderer.document.Files))))

	var summary types.OutputSummary
	if renderer.document.StructureOnly {
		return summary
	}

	readmePath := renderer.document.ReadmePath
	includedPaths := types.IncludedPaths(renderer.document.Files)
	if readmePath != utils.EmptyString && utils.ContainsString(includedPaths, readmePath) {
		renderer.renderFile(readmeHeading, readmePath, &summary)
	}
	for _, includedPath := range includedPaths {
		if includedPath == readmePath {
			continue
		}
		renderer.renderFile(fmt.Sprintf(fileHeadingFormat, includedPath), includedPath, &summary)
	}
	return summary
}

func (renderer *documentRenderer) renderFile(heading string, relativePath string, summary *types.OutputSummary) {
	renderer.writeString(heading)

	content, readError := renderer.readFile(relativePath)
	if readError != nil {
		renderer.logger.Warn(warningUnreadableFile, zap.String("path", relativePath), zap.Error(readError))
		renderer.writeString(unreadableContentNote)
		summary.SkippedFiles++
		return
	}
	if utils.IsBinary(content) {
		renderer.logger.Warn(warningUndecodableFile, zap.String("path", relativePath))
		renderer.writeString(undecodableContentNote)
		summary.SkippedFiles++
		return
	}

	renderer.writeFenced(renderer.fenceLanguage(relativePath), content)
	renderer.logger.Info(infoIncludedFile, zap.String("path", relativePath))
	summary.IncludedFiles++
	summary.TotalBytes += int64(len(content))
}

func (renderer *documentRenderer) fenceLanguage(relativePath string) string {
	language, known := renderer.document.Languages.Lookup(relativePath)
	if !known && relativePath == renderer.document.ReadmePath {
		return readmeFallbackLanguage
	}
	return language
}

func (renderer *documentRenderer) readFile(relativePath string) ([]byte, error) {
	file, openError := renderer.fileSystem.Open(filepath.FromSlash(relativePath))
	if openError != nil {
		return nil, fmt.Errorf(errorReadFileFormat, relativePath, openError)
	}
	defer file.Close()
	content, readError := io.ReadAll(file)
	if readError != nil {
		return nil, fmt.Errorf(errorReadFileFormat, relativePath, readError)
	}
	return content, nil
}

// writeFenced writes content inside a code fence long enough to survive any
// backtick run in the content, followed by a blank line.
func (renderer *documentRenderer) writeFenced(language string, content []byte) {
	fence := codeFence(content)
	renderer.writeString(fence + language + "\n")
	renderer.writeString(string(content))
	if len(content) > 0 && content[len(content)-1] != '\n' {
		renderer.writeString("\n")
	}
	renderer.writeString(fence + "\n\n")
}

func excludedPaths(candidates []types.CandidateFile) map[string]struct{} {
	excluded := make(map[string]struct{})
	for _, candidate := range candidates {
		if !candidate.Included {
			excluded[candidate.Path] = struct{}{}
		}
	}
	return excluded
}
