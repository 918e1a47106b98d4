// SPDX-License-Identifier: MPL-2.0

package runfile

// DefaultName is the task file name looked up in the current directory when
// no explicit path is given.
const DefaultName = "runbook.cfg"

type (
	// File is the parsed, immutable representation of a task file.
	// All paths are resolved at load time; accessors never perform I/O.
	File struct {
		path      string
		baseDir   string
		container string
		logDirRaw string
		logDir    string

		apps  []App
		index map[string]int
	}

	// App is a named group of actions sharing working/log directory defaults.
	// WorkingDir is the host-resolved working directory; it is empty when a
	// container command is configured, in which case WorkingDirRaw is passed
	// through verbatim and resolved inside the container.
	App struct {
		Name          string
		WorkingDirRaw string
		WorkingDir    string
		LogDirRaw     string
		LogDir        string
		Actions       []Action

		index map[string]int
	}

	// Action is one named shell command belonging to an application. Command
	// is raw shell text: it is never parsed or tokenized by this package.
	Action struct {
		Name    string
		Command string
	}

	// ActionRef pairs an action with the name of its owning application, for
	// flattened listings across the whole file.
	ActionRef struct {
		AppName string
		Action  Action
	}
)

// Path returns the absolute path of the loaded task file.
func (f *File) Path() string { return f.path }

// BaseDir returns the directory containing the task file. It is the default
// working directory and the anchor for relative path resolution.
func (f *File) BaseDir() string { return f.baseDir }

// Container returns the configured container wrapper command, or "" when
// commands execute directly on the host.
func (f *File) Container() string { return f.container }

// DefaultLogDir returns the resolved file-level log directory: the global
// log_dir value if set, otherwise "<base-dir>/logs".
func (f *File) DefaultLogDir() string { return f.logDir }

// Apps returns all applications in definition order. The returned slice is a
// copy; the App values share their Actions backing arrays with the File.
func (f *File) Apps() []App {
	return append([]App(nil), f.apps...)
}

// App returns the application with the given name.
func (f *File) App(name string) (App, bool) {
	i, ok := f.index[name]
	if !ok {
		return App{}, false
	}
	return f.apps[i], true
}

// ActionsFor returns the actions of the named application in definition
// order, or nil if the application does not exist.
func (f *File) ActionsFor(name string) []Action {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return append([]Action(nil), f.apps[i].Actions...)
}

// AllActions returns every action across all applications, flattened in
// definition order.
func (f *File) AllActions() []ActionRef {
	var out []ActionRef
	for i := range f.apps {
		for _, act := range f.apps[i].Actions {
			out = append(out, ActionRef{AppName: f.apps[i].Name, Action: act})
		}
	}
	return out
}

// Action returns the named action of the named application.
func (f *File) Action(appName, actionName string) (Action, bool) {
	i, ok := f.index[appName]
	if !ok {
		return Action{}, false
	}
	return f.apps[i].Action(actionName)
}

// Action returns the named action of this application.
func (a App) Action(name string) (Action, bool) {
	i, ok := a.index[name]
	if !ok {
		return Action{}, false
	}
	return a.Actions[i], true
}

// ActionNames returns the action names of this application in definition order.
func (a App) ActionNames() []string {
	names := make([]string, len(a.Actions))
	for i, act := range a.Actions {
		names[i] = act.Name
	}
	return names
}
