// Package languages maps file extensions to the fence language used in flattened output.
// Only files whose extension appears in a Table are flattened.
package languages

import (
	"path"
	"strings"
)

// Table maps an extension, including its leading dot, to a fence language name.
type Table map[string]string

// Default returns the built-in extension table.
func Default() Table {
	return Table{
		".py":    "python",
		".js":    "javascript",
		".jsx":   "jsx",
		".ts":    "typescript",
		".tsx":   "tsx",
		".swift": "swift",
		".go":    "go",
		".java":  "java",
		".c":     "c",
		".cpp":   "c++",
		".h":     "c",
		".hpp":   "c++",
		".cs":    "csharp",
		".lua":   "lua",
		".rb":    "ruby",
		".php":   "php",
		".pl":    "perl",
		".html":  "html",
		".css":   "css",
		".json":  "json",
		".toml":  "toml",
		".md":    "markdown",
		".yaml":  "yaml",
		".yml":   "yaml",
		".conf":  "config",
		".ini":   "ini",
		".sh":    "shell",
	}
}

// WithOverrides returns a copy of table extended by overrides. Extensions missing
// their leading dot are normalized; an empty language removes the extension.
func (table Table) WithOverrides(overrides map[string]string) Table {
	result := make(Table, len(table)+len(overrides))
	for extension, language := range table {
		result[extension] = language
	}
	for extension, language := range overrides {
		normalizedExtension := strings.TrimSpace(extension)
		if normalizedExtension == "" {
			continue
		}
		if !strings.HasPrefix(normalizedExtension, ".") {
			normalizedExtension = "." + normalizedExtension
		}
		trimmedLanguage := strings.TrimSpace(language)
		if trimmedLanguage == "" {
			delete(result, normalizedExtension)
			continue
		}
		result[normalizedExtension] = trimmedLanguage
	}
	return result
}

// Lookup returns the fence language for filePath and whether its extension is supported.
func (table Table) Lookup(filePath string) (string, bool) {
	extension := path.Ext(filePath)
	if extension == "" {
		return "", false
	}
	language, supported := table[extension]
	return language, supported
}

// Supports reports whether filePath has a supported extension.
func (table Table) Supports(filePath string) bool {
	_, supported := table.Lookup(filePath)
	return supported
}
