// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"runbook-cli/pkg/runfile"
)

func TestValidateFile_CleanFile(t *testing.T) {
	t.Parallel()

	file := loadTestFile(t, `[Web]
build = npm run build
test = FOO=bar npm test -- --coverage
`)

	diags := validateFile(file)
	if len(diags) != 0 {
		t.Errorf("got %d diagnostics for a clean file: %+v", len(diags), diags)
	}
}

func TestValidateFile_SyntaxError(t *testing.T) {
	t.Parallel()

	file := loadTestFile(t, `[Web]
build = echo "unclosed
`)

	diags := validateFile(file)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}

	d := diags[0]
	if d.Level != diagError {
		t.Errorf("level = %v, want diagError", d.Level)
	}
	if d.App != "Web" || d.Action != "build" {
		t.Errorf("diagnostic names %s/%s, want Web/build", d.App, d.Action)
	}
	if !strings.Contains(d.Message, "syntax error") {
		t.Errorf("message %q does not mention syntax error", d.Message)
	}
}

func TestValidateFile_EmptyCommand(t *testing.T) {
	t.Parallel()

	file := loadTestFile(t, `[Web]
build =
`)

	diags := validateFile(file)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	if diags[0].Level != diagWarning {
		t.Errorf("empty command should be a warning, got %v", diags[0].Level)
	}
	if !strings.Contains(diags[0].Message, "no command") {
		t.Errorf("message %q does not mention the missing command", diags[0].Message)
	}
}

func TestValidateFile_MissingWorkingDir(t *testing.T) {
	t.Parallel()

	file := loadTestFile(t, `[Ops]
working_dir = ./missing
deploy = echo hi
`)

	diags := validateFile(file)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	if diags[0].Level != diagWarning {
		t.Errorf("missing working dir should be a warning, got %v", diags[0].Level)
	}
	if !strings.Contains(diags[0].Message, "working directory") {
		t.Errorf("message %q does not mention the working directory", diags[0].Message)
	}
}

func TestValidateFile_ExistingWorkingDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "web"), 0o755); err != nil {
		t.Fatalf("creating working dir: %v", err)
	}

	path := filepath.Join(dir, "runbook.cfg")
	content := `[Web]
working_dir = ./web
build = npm run build
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing task file: %v", err)
	}

	file, err := runfile.Load(path)
	if err != nil {
		t.Fatalf("loading task file: %v", err)
	}

	if diags := validateFile(file); len(diags) != 0 {
		t.Errorf("got %d diagnostics, want 0: %+v", len(diags), diags)
	}
}

func TestValidateFile_ContainerSkipsWorkingDirCheck(t *testing.T) {
	t.Parallel()

	file := loadTestFile(t, `container = docker compose exec web

[Web]
working_dir = /srv/app
build = npm run build
`)

	if diags := validateFile(file); len(diags) != 0 {
		t.Errorf("container working dirs must not be checked on the host: %+v", diags)
	}
}

func TestPrintDiagnostics(t *testing.T) {
	t.Parallel()

	file := loadTestFile(t, `[Web]
build = echo ok
test = echo ok
`)

	diags := []diagnostic{
		{App: "Web", Action: "build", Level: diagError, Message: "syntax error: boom"},
		{App: "Web", Level: diagWarning, Message: "working directory missing"},
	}

	var buf bytes.Buffer
	errCount := printDiagnostics(&buf, file, diags)

	if errCount != 1 {
		t.Errorf("errCount = %d, want 1", errCount)
	}

	out := buf.String()
	for _, token := range []string{"Web - build", "syntax error: boom", "working directory missing"} {
		if !strings.Contains(out, token) {
			t.Errorf("output does not contain %q:\n%s", token, out)
		}
	}
	if !strings.Contains(out, "1 of 2 action(s) invalid") {
		t.Errorf("output does not contain the failure summary:\n%s", out)
	}
}

func TestPrintDiagnostics_AllValid(t *testing.T) {
	t.Parallel()

	file := loadTestFile(t, `[Web]
build = echo ok
`)

	var buf bytes.Buffer
	errCount := printDiagnostics(&buf, file, nil)

	if errCount != 0 {
		t.Errorf("errCount = %d, want 0", errCount)
	}
	if !strings.Contains(buf.String(), "1 action(s) valid") {
		t.Errorf("output does not report validity:\n%s", buf.String())
	}
}
