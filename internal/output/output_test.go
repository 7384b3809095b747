package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/flat/internal/languages"
	"github.com/temirov/flat/internal/output"
	"github.com/temirov/flat/internal/types"
)

func writeFiles(testingInstance *testing.T, rootDirectory string, files map[string]string) {
	testingInstance.Helper()
	for relativePath, content := range files {
		absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
		if makeDirectoryError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); makeDirectoryError != nil {
			testingInstance.Fatalf("mkdir: %v", makeDirectoryError)
		}
		if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
			testingInstance.Fatalf("write: %v", writeError)
		}
	}
}

func sampleTree() *types.TreeNode {
	return &types.TreeNode{
		Name: "demo",
		Type: types.NodeTypeDirectory,
		Children: []*types.TreeNode{
			{Path: "README.md", Name: "README.md", Type: types.NodeTypeFile},
			{Path: "src", Name: "src", Type: types.NodeTypeDirectory, Children: []*types.TreeNode{
				{Path: "src/main.py", Name: "main.py", Type: types.NodeTypeFile},
				{Path: "src/util.go", Name: "util.go", Type: types.NodeTypeFile},
			}},
		},
	}
}

func sampleDocument() output.Document {
	return output.Document{
		RepositoryName: "demo",
		Tree:           sampleTree(),
		Files: []types.CandidateFile{
			{Path: "README.md", Included: true},
			{Path: "src/main.py", Included: true},
			{Path: "src/util.go", Included: true},
		},
		ReadmePath: "README.md",
		Languages:  languages.Default(),
	}
}

func sampleRepository(testingInstance *testing.T) string {
	rootDirectory := testingInstance.TempDir()
	writeFiles(testingInstance, rootDirectory, map[string]string{
		"README.md":   "# demo",
		"src/main.py": "print('hi')\n",
		"src/util.go": "package src\n",
	})
	return rootDirectory
}

func TestRenderDocumentFullOutput(testingInstance *testing.T) {
	rootDirectory := sampleRepository(testingInstance)

	var buffer bytes.Buffer
	summary, renderError := output.RenderDocument(&buffer, osfs.New(rootDirectory), sampleDocument(), zap.NewNop())
	if renderError != nil {
		testingInstance.Fatalf("RenderDocument: %v", renderError)
	}

	expected := "# Contents of demo source tree\n\n" +
		"## Folder Structure\n\n" +
		"```\n" +
		"├── README.md\n" +
		"└── src\n" +
		"    ├── main.py\n" +
		"    └── util.go\n" +
		"```\n\n" +
		"## README\n\n" +
		"```markdown\n# demo\n```\n\n" +
		"## File: src/main.py\n\n" +
		"```python\nprint('hi')\n```\n\n" +
		"## File: src/util.go\n\n" +
		"```go\npackage src\n```\n\n"
	if buffer.String() != expected {
		testingInstance.Fatalf("unexpected document:\n%s\nexpected:\n%s", buffer.String(), expected)
	}
	if summary.IncludedFiles != 3 || summary.SkippedFiles != 0 {
		testingInstance.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRenderDocumentReadmeFirstRegardlessOfOrder(testingInstance *testing.T) {
	rootDirectory := sampleRepository(testingInstance)
	document := sampleDocument()
	document.Files = []types.CandidateFile{
		{Path: "src/main.py", Included: true},
		{Path: "README.md", Included: true},
	}

	var buffer bytes.Buffer
	if _, renderError := output.RenderDocument(&buffer, osfs.New(rootDirectory), document, zap.NewNop()); renderError != nil {
		testingInstance.Fatalf("RenderDocument: %v", renderError)
	}
	rendered := buffer.String()
	readmeIndex := strings.Index(rendered, "## README")
	fileIndex := strings.Index(rendered, "## File: src/main.py")
	if readmeIndex < 0 || fileIndex < 0 || readmeIndex > fileIndex {
		testingInstance.Fatalf("README must precede file sections:\n%s", rendered)
	}
	if strings.Contains(rendered, "## File: README.md") {
		testingInstance.Fatalf("README rendered twice:\n%s", rendered)
	}
}

func TestRenderDocumentStructureOnly(testingInstance *testing.T) {
	rootDirectory := sampleRepository(testingInstance)
	document := sampleDocument()
	document.StructureOnly = true

	var buffer bytes.Buffer
	summary, renderError := output.RenderDocument(&buffer, osfs.New(rootDirectory), document, zap.NewNop())
	if renderError != nil {
		testingInstance.Fatalf("RenderDocument: %v", renderError)
	}
	rendered := buffer.String()
	if !strings.Contains(rendered, "## Folder Structure") {
		testingInstance.Fatalf("missing structure section:\n%s", rendered)
	}
	if strings.Contains(rendered, "## File:") || strings.Contains(rendered, "## README") {
		testingInstance.Fatalf("structure-only output contains content sections:\n%s", rendered)
	}
	if summary.IncludedFiles != 0 {
		testingInstance.Fatalf("expected no included files, got %d", summary.IncludedFiles)
	}
}

func TestRenderDocumentMarksExcludedFiles(testingInstance *testing.T) {
	rootDirectory := sampleRepository(testingInstance)
	document := sampleDocument()
	document.Files[1].Included = false

	var buffer bytes.Buffer
	if _, renderError := output.RenderDocument(&buffer, osfs.New(rootDirectory), document, zap.NewNop()); renderError != nil {
		testingInstance.Fatalf("RenderDocument: %v", renderError)
	}
	rendered := buffer.String()
	if !strings.Contains(rendered, "├── main.py (excluded)\n") {
		testingInstance.Fatalf("expected excluded marker:\n%s", rendered)
	}
	if strings.Contains(rendered, "## File: src/main.py") {
		testingInstance.Fatalf("excluded file rendered:\n%s", rendered)
	}
	if !strings.Contains(rendered, "## File: src/util.go") {
		testingInstance.Fatalf("included file missing:\n%s", rendered)
	}
}

func TestRenderDocumentIsDeterministic(testingInstance *testing.T) {
	rootDirectory := sampleRepository(testingInstance)
	fileSystem := osfs.New(rootDirectory)

	var firstBuffer, secondBuffer bytes.Buffer
	if _, renderError := output.RenderDocument(&firstBuffer, fileSystem, sampleDocument(), zap.NewNop()); renderError != nil {
		testingInstance.Fatalf("RenderDocument: %v", renderError)
	}
	if _, renderError := output.RenderDocument(&secondBuffer, fileSystem, sampleDocument(), zap.NewNop()); renderError != nil {
		testingInstance.Fatalf("RenderDocument: %v", renderError)
	}
	if !bytes.Equal(firstBuffer.Bytes(), secondBuffer.Bytes()) {
		testingInstance.Fatalf("renders differ")
	}
}

func TestRenderDocumentUndecodableAndMissingFiles(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFiles(testingInstance, rootDirectory, map[string]string{
		"bad.py":  string([]byte{0xff, 0xfe, 0x00}),
		"good.py": "x = 1\n",
	})
	document := output.Document{
		RepositoryName: "demo",
		Tree:           &types.TreeNode{Type: types.NodeTypeDirectory},
		Files: []types.CandidateFile{
			{Path: "bad.py", Included: true},
			{Path: "gone.py", Included: true},
			{Path: "good.py", Included: true},
		},
		Languages: languages.Default(),
	}
	observedCore, observedLogs := observer.New(zapcore.WarnLevel)

	var buffer bytes.Buffer
	summary, renderError := output.RenderDocument(&buffer, osfs.New(rootDirectory), document, zap.New(observedCore))
	if renderError != nil {
		testingInstance.Fatalf("RenderDocument: %v", renderError)
	}
	rendered := buffer.String()
	if !strings.Contains(rendered, "## File: bad.py\n\n_Content omitted: the file is not valid UTF-8 text._\n") {
		testingInstance.Fatalf("missing undecodable note:\n%s", rendered)
	}
	if !strings.Contains(rendered, "## File: gone.py\n\n_Content omitted: the file could not be read._\n") {
		testingInstance.Fatalf("missing unreadable note:\n%s", rendered)
	}
	if !strings.Contains(rendered, "```python\nx = 1\n```") {
		testingInstance.Fatalf("run did not continue after skipped files:\n%s", rendered)
	}
	if summary.IncludedFiles != 1 || summary.SkippedFiles != 2 {
		testingInstance.Fatalf("unexpected summary %+v", summary)
	}
	if observedLogs.Len() != 2 {
		testingInstance.Fatalf("expected two warnings, got %d", observedLogs.Len())
	}
}

func TestRenderDocumentWidensFenceAroundBackticks(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFiles(testingInstance, rootDirectory, map[string]string{
		"notes.md": "before\n````go\nfmt.Println()\n````\nafter\n",
	})
	document := output.Document{
		RepositoryName: "demo",
		Tree:           &types.TreeNode{Type: types.NodeTypeDirectory},
		Files:          []types.CandidateFile{{Path: "notes.md", Included: true}},
		Languages:      languages.Default(),
	}

	var buffer bytes.Buffer
	if _, renderError := output.RenderDocument(&buffer, osfs.New(rootDirectory), document, zap.NewNop()); renderError != nil {
		testingInstance.Fatalf("RenderDocument: %v", renderError)
	}
	if !strings.Contains(buffer.String(), "`````markdown\nbefore\n") || !strings.HasSuffix(buffer.String(), "after\n`````\n\n") {
		testingInstance.Fatalf("fence not widened:\n%s", buffer.String())
	}
}

func TestRenderTreeNestedPadding(testingInstance *testing.T) {
	rootNode := &types.TreeNode{Type: types.NodeTypeDirectory, Children: []*types.TreeNode{
		{Path: "a", Name: "a", Type: types.NodeTypeDirectory, Children: []*types.TreeNode{
			{Path: "a/x.go", Name: "x.go", Type: types.NodeTypeFile},
		}},
		{Path: "b.go", Name: "b.go", Type: types.NodeTypeFile},
	}}
	expected := "├── a\n│   └── x.go\n└── b.go\n"
	if rendered := output.RenderTree(rootNode, nil); rendered != expected {
		testingInstance.Fatalf("expected %q, got %q", expected, rendered)
	}
}
