// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	TaskFileNotFoundId Id = iota + 1
	TaskFileEmptyId
	TaskFileParseErrorId
	NoCommandId
	WorkingDirNotFoundId
	NoMatchId
	ConfigLoadFailedId
	HistoryUnavailableId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // links into runbook's own docs
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	taskFileNotFoundIssue = &Issue{
		id: TaskFileNotFoundId,
		mdMsg: `
# No task file found!

We looked for a task file but couldn't find one at the expected location.

## Where runbook looks:
1. The path given with --file
2. runbook.cfg in the current directory

## Things you can try:
- Change into the directory that holds your task file:
~~~
$ cd /path/to/your/project
$ runbook
~~~

- Or point runbook at the file directly:
~~~
$ runbook --file /path/to/tasks.cfg
~~~

## Example task file:
~~~ini
log_dir = logs

[Web]
working_dir = ./web
build = npm run build
test = npm test

[API]
build = go build ./...
~~~`,
	}

	taskFileEmptyIssue = &Issue{
		id: TaskFileEmptyId,
		mdMsg: `
# Task file defines no applications!

The task file exists but contains no [Application] sections, so there is
nothing to run.

## Things you can try:
- Add at least one application section with one action:
~~~ini
[MyApp]
build = make build
~~~

- Check that your section headers use square brackets and a non-empty name
- Lines that are not comments, section headers, or key = value pairs are
  skipped silently; run with --debug to see what was ignored`,
	}

	taskFileParseErrorIssue = &Issue{
		id: TaskFileParseErrorId,
		mdMsg: `
# Failed to parse task file!

The task file contains a section header with an empty name, like:

~~~ini
[]
build = make build
~~~

## Things you can try:
- Check the reported line number and give the section a name
- Section names may contain spaces and mixed case: [My App] is fine
- Use # for comment lines`,
	}

	noCommandIssue = &Issue{
		id: NoCommandId,
		mdMsg: `
# Action has no command!

The selected action resolved to an empty command, so there is nothing to
execute.

## Things you can try:
- Give the action a command in your task file:
~~~ini
[MyApp]
build = make build
~~~

- Remember that a later line with the same key replaces the earlier value;
  check for a stray override like:
~~~ini
build = make build
build =
~~~`,
	}

	workingDirNotFoundIssue = &Issue{
		id: WorkingDirNotFoundId,
		mdMsg: `
# Working directory not found!

The application's working_dir points at a directory that does not exist on
this machine.

## Things you can try:
- Create the directory, or fix the working_dir value:
~~~ini
[MyApp]
working_dir = ./services/myapp
build = make build
~~~

- Relative paths resolve against the task file's directory, not your shell's
  current directory
- When a container prefix is set, working_dir refers to a path inside the
  container and is not checked on the host`,
	}

	noMatchIssue = &Issue{
		id: NoMatchId,
		mdMsg: `
# Nothing matched your pattern!

The application or action pattern did not match anything in the task file.

## How matching works:
- Exact names match first: runbook run Web build
- Patterns with * use glob matching: runbook run "Web*" build
- Anything else matches as a case-insensitive substring: runbook run api test
- Comma-separated lists combine patterns: runbook run "Web,API" build
- The action pattern all selects every action of the matched applications

## Things you can try:
- List what the task file actually defines:
~~~
$ runbook list
~~~

- Quote glob patterns so your shell does not expand them`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the runbook configuration file.

## Configuration file locations:
- Linux: ~/.config/runbook/config.cue
- macOS: ~/Library/Application Support/runbook/config.cue
- Windows: %APPDATA%\runbook\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ runbook config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/runbook/config.cue
~~~

## Example configuration:
~~~cue
ui: {
  color_scheme: "auto"
  alt_screen: true
}

history: {
  enabled: true
}

watch: {
  debounce_ms: 300
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	historyUnavailableIssue = &Issue{
		id: HistoryUnavailableId,
		mdMsg: `
# History store unavailable!

The execution history database could not be opened, so runs will not be
recorded and runbook history has nothing to show.

## Things you can try:
- Check that the history path is writable (default lives next to the
  configuration file)
- Point history at a different location:
~~~cue
history: {
  enabled: true
  path: "/somewhere/writable/history.db"
}
~~~

- Or turn history off entirely:
~~~cue
history: {
  enabled: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		taskFileNotFoundIssue.Id():   taskFileNotFoundIssue,
		taskFileEmptyIssue.Id():      taskFileEmptyIssue,
		taskFileParseErrorIssue.Id(): taskFileParseErrorIssue,
		noCommandIssue.Id():          noCommandIssue,
		workingDirNotFoundIssue.Id(): workingDirNotFoundIssue,
		noMatchIssue.Id():            noMatchIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		historyUnavailableIssue.Id(): historyUnavailableIssue,
	}
)

// Values returns every catalog entry ordered by issue ID.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)

	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
