package diffmage

import (
	"path"
	"strings"
)

// testSourceExts are the source extensions a test file can carry. A file
// must match both a test naming convention and one of these extensions to
// classify as test code.
var testSourceExts = map[string]bool{
	".py":   true,
	".js":   true,
	".ts":   true,
	".java": true,
	".cpp":  true,
	".rb":   true,
	".go":   true,
}

var configExts = map[string]bool{
	".yml":  true,
	".yaml": true,
	".json": true,
	".toml": true,
	".ini":  true,
	".conf": true,
}

var configNames = map[string]bool{
	"dockerfile":          true,
	"docker-compose.yml":  true,
	"docker-compose.yaml": true,
	".dockerignore":       true,
	".dockerfile":         true,
	".env":                true,
	".env.local":          true,
}

var sourceExts = map[string]bool{
	".py":    true,
	".js":    true,
	".ts":    true,
	".jsx":   true,
	".tsx":   true,
	".java":  true,
	".cpp":   true,
	".c":     true,
	".h":     true,
	".rb":    true,
	".erb":   true,
	".go":    true,
	".rs":    true,
	".php":   true,
	".cs":    true,
	".swift": true,
}

var docExts = map[string]bool{
	".md":  true,
	".txt": true,
	".rst": true,
	".tex": true,
}

// binaryDocExts classify as documentation despite being binary formats.
var binaryDocExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".ppt":  true,
	".pptx": true,
}

// ClassifyFile maps a file path to its semantic category using path and
// naming heuristics. It always returns a value, defaulting to
// FileTypeUnknown.
//
// The test check requires a real naming-convention match: a name that
// merely contains "test" as a substring (latest.py, contest.js) is source
// code, not test code.
func ClassifyFile(filePath string) FileType {
	name := strings.ToLower(path.Base(filePath))
	ext := strings.ToLower(path.Ext(filePath))

	if isTestPath(filePath, name) && testSourceExts[ext] {
		return FileTypeTestCode
	}
	if configExts[ext] || configNames[name] {
		return FileTypeConfig
	}
	if sourceExts[ext] {
		return FileTypeSourceCode
	}
	if docExts[ext] || binaryDocExts[ext] {
		return FileTypeDocumentation
	}
	return FileTypeUnknown
}

// isTestPath reports whether the path matches a test naming convention:
// a test directory segment or a recognized test file name pattern.
func isTestPath(filePath, name string) bool {
	for _, segment := range strings.Split(filePath, "/") {
		switch segment {
		case "test", "tests", "__tests__":
			return true
		}
	}

	return strings.HasPrefix(name, "test_") ||
		strings.HasSuffix(name, "_test") ||
		strings.HasSuffix(name, "_spec") ||
		strings.Contains(name, "_test.") ||
		strings.Contains(name, "_test_") ||
		strings.Contains(name, ".test.") ||
		strings.Contains(name, "_spec.") ||
		strings.Contains(name, "_spec_") ||
		strings.Contains(name, ".spec.")
}
