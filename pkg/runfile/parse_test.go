// SPDX-License-Identifier: MPL-2.0

package runfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTaskFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runbook.cfg")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write task file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	content := "\uFEFF# build targets\n" +
		"log_dir=logs/global\n" +
		"container=docker exec dev\n" +
		"\n" +
		"[Web]\n" +
		"working_dir=/srv/web\n" +
		"log_dir=logs/web\n" +
		"build=make build\n" +
		"test=make test\n" +
		"build=make -j4 build\n" +
		"this line has no equals sign\n" +
		"[API]\n" +
		"deploy=./deploy.sh\n"

	f, err := Load(writeTaskFile(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if f.Container() != "docker exec dev" {
		t.Errorf("Container() = %q, want %q", f.Container(), "docker exec dev")
	}

	apps := f.Apps()
	if len(apps) != 2 {
		t.Fatalf("Apps() returned %d apps, want 2", len(apps))
	}
	if apps[0].Name != "Web" || apps[1].Name != "API" {
		t.Errorf("app order = [%s, %s], want [Web, API]", apps[0].Name, apps[1].Name)
	}

	web := apps[0]
	if web.WorkingDirRaw != "/srv/web" {
		t.Errorf("Web.WorkingDirRaw = %q, want %q", web.WorkingDirRaw, "/srv/web")
	}
	if len(web.Actions) != 2 {
		t.Fatalf("Web has %d actions, want 2", len(web.Actions))
	}
	// Redefinition keeps the original position but replaces the command.
	if web.Actions[0].Name != "build" || web.Actions[0].Command != "make -j4 build" {
		t.Errorf("Web.Actions[0] = %+v, want build=make -j4 build", web.Actions[0])
	}
	if web.Actions[1].Name != "test" || web.Actions[1].Command != "make test" {
		t.Errorf("Web.Actions[1] = %+v, want test=make test", web.Actions[1])
	}

	if got := f.AllActions(); len(got) != 3 {
		t.Errorf("AllActions() returned %d refs, want 3", len(got))
	}

	act, ok := f.Action("API", "deploy")
	if !ok || act.Command != "./deploy.sh" {
		t.Errorf("Action(API, deploy) = %+v, %v; want ./deploy.sh, true", act, ok)
	}
}

func TestLoad_StripsByteOrderMark(t *testing.T) {
	t.Parallel()

	// Without BOM stripping the first line would not read as a section
	// header and the file would parse as empty.
	f, err := Load(writeTaskFile(t, "\ufeff[Web]\nbuild=make\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := f.App("Web"); !ok {
		t.Error("App(Web) not found after BOM-prefixed header")
	}
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.cfg"))
	if err == nil {
		t.Fatal("Load() succeeded for a missing file")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error should wrap ErrNotFound, got: %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("error should be a *NotFoundError, got: %T", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"no sections", "log_dir=/var/log\ncontainer=podman run img\n"},
		{"only comments", "# nothing here\n\n# still nothing\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeTaskFile(t, tt.content))
			if !errors.Is(err, ErrEmpty) {
				t.Errorf("Load() error = %v, want ErrEmpty", err)
			}
		})
	}
}

func TestLoad_EmptySectionName(t *testing.T) {
	t.Parallel()

	_, err := Load(writeTaskFile(t, "[]\nbuild=make\n"))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Load() error = %v, want ErrParse", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error should be a *ParseError, got: %T", err)
	}
	if pe.Line != 1 {
		t.Errorf("ParseError.Line = %d, want 1", pe.Line)
	}
}

func TestLoad_ReopenedSectionContinues(t *testing.T) {
	t.Parallel()

	content := "[Web]\nbuild=make\n[API]\ndeploy=go run .\n[Web]\ntest=make test\n"
	f, err := Load(writeTaskFile(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(f.Apps()) != 2 {
		t.Fatalf("Apps() returned %d apps, want 2", len(f.Apps()))
	}

	actions := f.ActionsFor("Web")
	if len(actions) != 2 {
		t.Fatalf("Web has %d actions, want 2", len(actions))
	}
	if actions[0].Name != "build" || actions[1].Name != "test" {
		t.Errorf("Web actions = [%s, %s], want [build, test]", actions[0].Name, actions[1].Name)
	}
}

func TestLoad_ReservedKeysAreNotActions(t *testing.T) {
	t.Parallel()

	content := "[Web]\nworking_dir=/srv\nlog_dir=/var/log\nbuild=make\n"
	f, err := Load(writeTaskFile(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	actions := f.ActionsFor("Web")
	if len(actions) != 1 || actions[0].Name != "build" {
		t.Errorf("ActionsFor(Web) = %+v, want only the build action", actions)
	}
}

func TestLoad_ContainerKeyInsideSectionIsAnAction(t *testing.T) {
	t.Parallel()

	// "container" is only special before the first section.
	content := "[Web]\ncontainer=echo not global\n"
	f, err := Load(writeTaskFile(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if f.Container() != "" {
		t.Errorf("Container() = %q, want empty", f.Container())
	}
	if _, ok := f.Action("Web", "container"); !ok {
		t.Error("Action(Web, container) not found, want an action")
	}
}

func TestLoad_UnknownGlobalKeyIgnored(t *testing.T) {
	t.Parallel()

	content := "color=blue\n[Web]\nbuild=make\n"
	f, err := Load(writeTaskFile(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := f.AllActions(); len(got) != 1 {
		t.Errorf("AllActions() returned %d refs, want 1", len(got))
	}
}

func TestActionNames(t *testing.T) {
	t.Parallel()

	f, err := Load(writeTaskFile(t, "[Web]\nbuild=make\ntest=make test\nlint=make lint\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	app, ok := f.App("Web")
	if !ok {
		t.Fatal("App(Web) not found")
	}

	names := app.ActionNames()
	want := []string{"build", "test", "lint"}
	if len(names) != len(want) {
		t.Fatalf("ActionNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ActionNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
