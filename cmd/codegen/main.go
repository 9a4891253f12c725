package main

import (
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/delaneyj/trackparty/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	fileKey    = "file"
	typeKey    = "type"
	outKey     = "out"
	runtimeKey = "runtime"

	defaultRuntime = "github.com/delaneyj/trackparty/reactivity"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate a typed reactive wrapper for a struct",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     fileKey,
				Usage:    "Go source file declaring the struct",
				Required: true,
			},
			&cli.StringFlag{
				Name:     typeKey,
				Usage:    "Struct type to wrap",
				Required: true,
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Output file (default: <file>_reactive.go)",
			},
			&cli.StringFlag{
				Name:  runtimeKey,
				Usage: "Import path of the reactivity package",
				Value: defaultRuntime,
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	typeName := cmd.String(typeKey)
	log.Printf("Codegen for %s started !", typeName)
	defer func() {
		log.Printf("Codegen for %s finished in %v", typeName, time.Since(start))
	}()

	src := cmd.String(fileKey)
	out := cmd.String(outKey)
	if out == "" {
		out = strings.TrimSuffix(src, ".go") + "_reactive.go"
	}

	w, err := loadStruct(src, typeName)
	if err != nil {
		return err
	}
	w.Runtime = cmd.String(runtimeKey)

	contents, err := render(w)
	if err != nil {
		return err
	}
	log.Printf("Writing %d fields to %s", len(w.Fields), out)
	return os.WriteFile(out, contents, 0644)
}

// reserved are the method names every generated wrapper already has.
var reserved = map[string]bool{
	"Source": true,
	"Raw":    true,
}

func loadStruct(path, typeName string) (*templates.WrapperFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("can't parse %s: %w", path, err)
	}

	var st *ast.StructType
	ast.Inspect(file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok || ts.Name.Name != typeName {
			return st == nil
		}
		if s, ok := ts.Type.(*ast.StructType); ok {
			st = s
		}
		return false
	})
	if st == nil {
		return nil, fmt.Errorf("struct %s not found in %s", typeName, path)
	}

	decls := map[string]ast.Expr{}
	ast.Inspect(file, func(n ast.Node) bool {
		if ts, ok := n.(*ast.TypeSpec); ok {
			decls[ts.Name.Name] = ts.Type
		}
		return true
	})

	w := &templates.WrapperFile{
		Source:  filepath.Base(path),
		Package: file.Name.Name,
		Type:    typeName,
	}
	setters := map[string]bool{}
	for _, field := range st.Fields.List {
		var tag reflect.StructTag
		if field.Tag != nil {
			raw, err := strconv.Unquote(field.Tag.Value)
			if err != nil {
				return nil, fmt.Errorf("bad tag on %s: %w", typeName, err)
			}
			tag = reflect.StructTag(raw)
		}
		goType := types.ExprString(field.Type)
		isComparable := comparableType(field.Type, decls, map[string]bool{})

		names := make([]string, 0, len(field.Names))
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
		if len(field.Names) == 0 {
			names = append(names, embeddedName(field.Type))
		}

		for _, name := range names {
			if !ast.IsExported(name) {
				continue
			}
			f := templates.NewField(typeName, name, goType, tag, isComparable)
			if f.Key == "-" {
				continue
			}
			if reserved[f.Name] || setters[f.Name] {
				return nil, fmt.Errorf("field %s.%s clashes with a generated method", typeName, f.Name)
			}
			setters["Set"+f.Name] = true
			w.Fields = append(w.Fields, f)
		}
	}
	for _, f := range w.Fields {
		if setters[f.Name] {
			return nil, fmt.Errorf("field %s.%s clashes with a generated method", typeName, f.Name)
		}
	}

	return w, nil
}

// embeddedName is the field name Go gives an embedded type.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	}
	return ""
}

var comparableIdents = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true, "uintptr": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// comparableType reports whether == on the type is known to compile and
// never panic. Interfaces and types declared in other files or packages are
// not known, so their setters fall back to reactivity.Same.
func comparableType(expr ast.Expr, decls map[string]ast.Expr, seen map[string]bool) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		if comparableIdents[t.Name] {
			return true
		}
		decl, ok := decls[t.Name]
		if !ok || seen[t.Name] {
			return false
		}
		seen[t.Name] = true
		defer delete(seen, t.Name)
		return comparableType(decl, decls, seen)
	case *ast.ParenExpr:
		return comparableType(t.X, decls, seen)
	case *ast.StarExpr, *ast.ChanType:
		return true
	case *ast.ArrayType:
		return t.Len != nil && comparableType(t.Elt, decls, seen)
	case *ast.StructType:
		for _, f := range t.Fields.List {
			if !comparableType(f.Type, decls, seen) {
				return false
			}
		}
		return true
	}
	return false
}

func render(w *templates.WrapperFile) ([]byte, error) {
	contents := templates.Wrapper(w)
	formatted, err := format.Source([]byte(contents))
	if err != nil {
		return nil, fmt.Errorf("generated code for %s does not format: %w", w.Type, err)
	}
	return formatted, nil
}
