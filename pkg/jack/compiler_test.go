package jack_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arkwright-dev/jackc/pkg/jack"
)

func compile(t *testing.T, source string) string {
	t.Helper()
	var out bytes.Buffer
	if err := jack.CompileSource([]byte(source), &out, nil); err != nil {
		t.Fatalf("unexpected error compiling: %v\nsource:\n%s", err, source)
	}
	return out.String()
}

// lines splits compiled VM text into its instructions, trimming the leading
// tab indentation so expectations read the same whether or not a given
// instruction happens to be indented.
func lines(vmText string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimRight(vmText, "\n"), "\n") {
		out = append(out, strings.TrimSpace(line))
	}
	return out
}

func expectLines(t *testing.T, got string, want []string) {
	t.Helper()
	gotLines := lines(got)
	if len(gotLines) != len(want) {
		t.Fatalf("expected %d instructions, got %d:\ngot:  %v\nwant: %v", len(want), len(gotLines), gotLines, want)
	}
	for i := range want {
		if gotLines[i] != want[i] {
			t.Errorf("instruction %d: expected %q, got %q", i, want[i], gotLines[i])
		}
	}
}

func TestCompileEmptyVoidFunction(t *testing.T) {
	got := compile(t, `class A { function void f() { return; } }`)
	expectLines(t, got, []string{
		"function A.f 0",
		"push constant 0",
		"return",
	})
}

func TestCompileConstructorWithOneField(t *testing.T) {
	got := compile(t, `class A { field int x; constructor A new() { let x = 7; return this; } }`)
	expectLines(t, got, []string{
		"function A.new 0",
		"push constant 1",
		"call Memory.alloc 1",
		"pop pointer 0",
		"push constant 7",
		"pop this 0",
		"push pointer 0",
		"return",
	})
}

func TestCompileWhileLoop(t *testing.T) {
	got := compile(t, `
		class A {
			function void f() {
				var boolean x;
				while (x) {
					let x = x - 1;
				}
				return;
			}
		}
	`)
	expectLines(t, got, []string{
		"function A.f 1",
		"label L0",
		"push local 0",
		"not",
		"if-goto L1",
		"push local 0",
		"push constant 1",
		"sub",
		"pop local 0",
		"goto L0",
		"label L1",
		"push constant 0",
		"return",
	})
}

func TestCompileStringLiteral(t *testing.T) {
	got := compile(t, `
		class A {
			function void f() {
				do Output.printString("Hi");
				return;
			}
		}
	`)
	expectLines(t, got, []string{
		"function A.f 0",
		"push constant 2",
		"call String.new 1",
		"push constant 72",
		"call String.appendChar 2",
		"push constant 105",
		"call String.appendChar 2",
		"call Output.printString 1",
		"pop temp 0",
		"push constant 0",
		"return",
	})
}

func TestCompileArrayReadInExpression(t *testing.T) {
	got := compile(t, `
		class A {
			function void f() {
				var Array a;
				var int i;
				let i = a[0] + 1;
				return;
			}
		}
	`)
	expectLines(t, got, []string{
		"function A.f 2",
		"push local 0",
		"push constant 0",
		"add",
		"pop pointer 1",
		"push that 0",
		"push constant 1",
		"add",
		"pop local 1",
		"push constant 0",
		"return",
	})
}

func TestCompileMethodCallOnVariableVsClass(t *testing.T) {
	got := compile(t, `
		class A {
			function void f() {
				var Foo a;
				do a.draw();
				do Screen.clear();
				return;
			}
		}
	`)
	expectLines(t, got, []string{
		"function A.f 1",
		"push local 0",
		"call Foo.draw 1",
		"pop temp 0",
		"call Screen.clear 0",
		"pop temp 0",
		"push constant 0",
		"return",
	})
}

func TestCompileMethodPrologue(t *testing.T) {
	got := compile(t, `
		class Point {
			field int x, y;
			method void setX(int nx) {
				let x = nx;
				return;
			}
		}
	`)
	expectLines(t, got, []string{
		"function Point.setX 0",
		"push argument 0",
		"pop pointer 0",
		"push argument 1",
		"pop this 0",
		"push constant 0",
		"return",
	})
}

func TestCompileArrayAssignmentPreservesRHSOrdering(t *testing.T) {
	got := compile(t, `
		class A {
			function void f() {
				var Array a, b;
				let a[0] = b[1];
				return;
			}
		}
	`)
	expectLines(t, got, []string{
		"function A.f 2",
		"push local 0",
		"push constant 0",
		"add",
		"push local 1",
		"push constant 1",
		"add",
		"pop pointer 1",
		"push that 0",
		"pop temp 0",
		"pop pointer 1",
		"push temp 0",
		"pop that 0",
		"push constant 0",
		"return",
	})
}

func TestCompileUndefinedSymbolIsSemanticError(t *testing.T) {
	var out bytes.Buffer
	err := jack.CompileSource([]byte(`class A { function void f() { let x = 1; return; } }`), &out, nil)
	if err == nil {
		t.Fatalf("expected an error for an undefined symbol")
	}
	if _, ok := err.(*jack.SemanticError); !ok {
		t.Errorf("expected a *jack.SemanticError, got %T: %v", err, err)
	}
}

func TestCompileSyntaxError(t *testing.T) {
	var out bytes.Buffer
	err := jack.CompileSource([]byte(`class A { function void f() { let ; } }`), &out, nil)
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
	if _, ok := err.(*jack.SyntaxError); !ok {
		t.Errorf("expected a *jack.SyntaxError, got %T: %v", err, err)
	}
}

func TestCompileDebugDump(t *testing.T) {
	var out, debug bytes.Buffer
	err := jack.CompileSource([]byte(`
		class Point {
			field int x, y;
			constructor Point new() {
				let x = 0;
				let y = 0;
				return this;
			}
		}
	`), &out, &debug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dump := debug.String()
	if !strings.Contains(dump, "Point class") {
		t.Errorf("expected a class-scope dump tag, got: %q", dump)
	}
	if !strings.Contains(dump, "x: int this 0") || !strings.Contains(dump, "y: int this 1") {
		t.Errorf("expected field entries in the dump, got: %q", dump)
	}
	if !strings.Contains(dump, "------") {
		t.Errorf("expected a trailer line, got: %q", dump)
	}
}
