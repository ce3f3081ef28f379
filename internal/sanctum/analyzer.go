package sanctum

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
)

// AnalyzeSource parses one Go source file (contents given directly) and
// returns one violation string per disallowed import edge. The file's own
// layer comes from its path.
func AnalyzeSource(path, src string) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}

	fromLayer := Classify(path)
	if fromLayer == LayerUnknown {
		return nil, nil
	}

	var violations []string
	for _, imp := range file.Imports {
		target, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		toLayer := Classify(target)
		if toLayer == LayerUnknown || toLayer == fromLayer {
			continue
		}
		if !allowed[fromLayer][toLayer] {
			violations = append(violations, violationString(path, fromLayer, target, toLayer))
		}
	}
	return violations, nil
}

// AnalyzeTree walks a package tree and analyzes every non-test Go file.
// Intended for CI via cmd/sanctum-lint.
func AnalyzeTree(root string) ([]string, error) {
	var violations []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == "vendor" || name == "testdata" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		fset := token.NewFileSet()
		file, perr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if perr != nil {
			return perr
		}
		fromLayer := Classify(path)
		if fromLayer == LayerUnknown {
			return nil
		}
		for _, imp := range file.Imports {
			target, uerr := strconv.Unquote(imp.Path.Value)
			if uerr != nil {
				continue
			}
			toLayer := Classify(target)
			if toLayer == LayerUnknown || toLayer == fromLayer {
				continue
			}
			if !allowed[fromLayer][toLayer] {
				violations = append(violations, violationString(path, fromLayer, target, toLayer))
			}
		}
		return nil
	})
	return violations, err
}
