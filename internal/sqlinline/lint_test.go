package sqlinline

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

var (
	sqlMarkerPattern  = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with|create)\b`)
	uuidMarkerPattern = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

func TestStatementsCarryAuditMarker(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	seen := map[string]string{}
	for _, path := range files {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		ast.Inspect(file, func(n ast.Node) bool {
			vs, ok := n.(*ast.ValueSpec)
			if !ok {
				return true
			}
			for i, value := range vs.Values {
				bl, ok := value.(*ast.BasicLit)
				if !ok || bl.Kind != token.STRING {
					continue
				}
				raw := unquote(bl.Value)
				if !sqlMarkerPattern.MatchString(raw) {
					continue
				}
				name := vs.Names[i].Name
				marker := firstLine(raw)
				if !uuidMarkerPattern.MatchString(marker) {
					t.Errorf("%s:%d %s: missing or invalid --sql <uuid> marker", path, fset.Position(bl.Pos()).Line, name)
					continue
				}
				if other, dup := seen[marker]; dup {
					t.Errorf("%s reuses the marker of %s", name, other)
				}
				seen[marker] = name
			}
			return true
		})
	}
	if len(seen) == 0 {
		t.Fatalf("no statements found")
	}
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) string {
	if len(v) > 1 && v[0] == '`' {
		return v[1 : len(v)-1]
	}
	if s, err := strconv.Unquote(v); err == nil {
		return s
	}
	return v
}
