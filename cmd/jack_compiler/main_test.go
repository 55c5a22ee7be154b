package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeJack writes a single .jack source under dir and returns its path.
func writeJack(t *testing.T, dir, name, source string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(source), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}
	return p
}

func readOutput(t *testing.T, jackPath string) string {
	t.Helper()
	vmPath := strings.TrimSuffix(jackPath, ".jack") + ".vm"
	content, err := os.ReadFile(vmPath)
	if err != nil {
		t.Fatalf("expected output file %s: %v", vmPath, err)
	}
	return string(content)
}

func TestHandlerSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeJack(t, dir, "A.jack", `
		class A {
			function void f() {
				return;
			}
		}
	`)

	status := Handler([]string{path}, map[string]string{})
	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}

	got := readOutput(t, path)
	want := "function A.f 0\n\tpush constant 0\n\treturn\n"
	if got != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestHandlerDirectoryNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeJack(t, dir, "A.jack", `class A { function void f() { return; } }`)
	writeJack(t, dir, "B.jack", `class B { function void g() { return; } }`)

	nested := filepath.Join(dir, "nested")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatalf("unable to create nested dir: %v", err)
	}
	writeJack(t, nested, "C.jack", `class C { function void h() { return; } }`)

	status := Handler([]string{dir}, map[string]string{})
	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}

	if _, err := os.Stat(filepath.Join(dir, "A.vm")); err != nil {
		t.Errorf("A.vm was not produced: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "B.vm")); err != nil {
		t.Errorf("B.vm was not produced: %v", err)
	}
	if _, err := os.Stat(filepath.Join(nested, "C.vm")); err == nil {
		t.Errorf("nested directory should not have been walked")
	}
}

func TestHandlerUsageOnWrongArgCount(t *testing.T) {
	if status := Handler([]string{}, map[string]string{}); status == 0 {
		t.Errorf("expected non-zero status with no arguments")
	}
	if status := Handler([]string{"a", "b"}, map[string]string{}); status == 0 {
		t.Errorf("expected non-zero status with more than one argument")
	}
}

func TestHandlerSyntaxErrorReportedPerFile(t *testing.T) {
	dir := t.TempDir()
	writeJack(t, dir, "Bad.jack", `class Bad { function void f() { let ; } }`)
	writeJack(t, dir, "Good.jack", `class Good { function void f() { return; } }`)

	status := Handler([]string{dir}, map[string]string{})
	if status == 0 {
		t.Fatalf("expected non-zero status due to Bad.jack")
	}
	if _, err := os.Stat(filepath.Join(dir, "Good.vm")); err != nil {
		t.Errorf("Good.vm should still be produced despite Bad.jack failing: %v", err)
	}
}

func TestHandlerDebugDump(t *testing.T) {
	dir := t.TempDir()
	path := writeJack(t, dir, "A.jack", `
		class A {
			field int x;
			constructor A new() {
				let x = 0;
				return this;
			}
		}
	`)

	status := Handler([]string{path}, map[string]string{"debug": "true"})
	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}

	dump, err := os.ReadFile(path + ".symbols")
	if err != nil {
		t.Fatalf("expected debug dump file: %v", err)
	}
	if !strings.Contains(string(dump), "x: int this 0") {
		t.Errorf("debug dump missing field entry, got: %q", string(dump))
	}
}
