package gotest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ariel-frischer/gotestnotify/internal/runner"
)

// Event is one line of `go test -json` output (see cmd/test2json)
type Event struct {
	Time        time.Time `json:"Time"`
	Action      string    `json:"Action"`
	Package     string    `json:"Package"`
	Test        string    `json:"Test"`
	Elapsed     float64   `json:"Elapsed"`
	Output      string    `json:"Output"`
	ImportPath  string    `json:"ImportPath"`
	FailedBuild string    `json:"FailedBuild"`
}

// Event actions
const (
	ActionRun         = "run"
	ActionPass        = "pass"
	ActionFail        = "fail"
	ActionSkip        = "skip"
	ActionOutput      = "output"
	ActionBuildOutput = "build-output"
	ActionBuildFail   = "build-fail"
)

// testState tracks one execution of a test between its run and terminal
// events. With -count=N a test has N states.
type testState struct {
	pkg      string
	name     string
	status   string
	output   strings.Builder
	children []*testState
}

// Collector decodes a test2json stream written to it and, on Finish, reports
// the tests into a result collector. Leaf tests count towards TestsRun; a
// parent test is only reported as failed when none of its subtests failed.
type Collector struct {
	result *runner.Result
	echo   io.Writer

	partial     []byte
	current     map[string]*testState
	order       []*testState
	pkgOutput   map[string]*strings.Builder
	buildOutput map[string]*strings.Builder
	pkgFailed   []string
	buildFailed map[string]bool
	buildOrder  []string
	stray       strings.Builder
}

// NewCollector creates a Collector that reports into result. When echo is
// non-nil every output line is copied to it as it arrives.
func NewCollector(result *runner.Result, echo io.Writer) *Collector {
	return &Collector{
		result:      result,
		echo:        echo,
		current:     make(map[string]*testState),
		pkgOutput:   make(map[string]*strings.Builder),
		buildOutput: make(map[string]*strings.Builder),
		buildFailed: make(map[string]bool),
	}
}

// Write buffers p and handles every complete line
func (c *Collector) Write(p []byte) (int, error) {
	c.partial = append(c.partial, p...)
	for {
		i := bytes.IndexByte(c.partial, '\n')
		if i < 0 {
			break
		}
		c.handleLine(c.partial[:i])
		c.partial = c.partial[i+1:]
	}
	return len(p), nil
}

// Stray returns output that was not part of any JSON event
func (c *Collector) Stray() string {
	return c.stray.String()
}

func (c *Collector) handleLine(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	var ev Event
	if line[0] != '{' || json.Unmarshal(line, &ev) != nil {
		c.stray.Write(line)
		c.stray.WriteByte('\n')
		c.echoText(string(line) + "\n")
		return
	}
	c.Handle(ev)
}

// Handle applies a single decoded event
func (c *Collector) Handle(ev Event) {
	switch ev.Action {
	case ActionBuildOutput:
		builderFor(c.buildOutput, ev.ImportPath).WriteString(ev.Output)
		c.echoText(ev.Output)
		return
	case ActionBuildFail:
		if !c.buildFailed[ev.ImportPath] {
			c.buildFailed[ev.ImportPath] = true
			c.buildOrder = append(c.buildOrder, ev.ImportPath)
		}
		return
	}

	if ev.Test == "" {
		c.handlePackage(ev)
		return
	}

	st := c.current[testKey(ev.Package, ev.Test)]
	if st == nil || ev.Action == ActionRun {
		st = c.startTest(ev.Package, ev.Test)
	}

	switch ev.Action {
	case ActionOutput:
		st.output.WriteString(ev.Output)
		c.echoText(ev.Output)
	case ActionPass, ActionFail, ActionSkip:
		st.status = ev.Action
	}
}

// startTest begins a new execution of name and attaches it to the running
// execution of its nearest parent test
func (c *Collector) startTest(pkg, name string) *testState {
	st := &testState{pkg: pkg, name: name}
	c.current[testKey(pkg, name)] = st
	c.order = append(c.order, st)

	for parent := name; ; {
		i := strings.LastIndexByte(parent, '/')
		if i < 0 {
			break
		}
		parent = parent[:i]
		if p := c.current[testKey(pkg, parent)]; p != nil {
			p.children = append(p.children, st)
			break
		}
	}
	return st
}

func testKey(pkg, name string) string {
	return pkg + "\x00" + name
}

func (c *Collector) handlePackage(ev Event) {
	switch ev.Action {
	case ActionOutput:
		builderFor(c.pkgOutput, ev.Package).WriteString(ev.Output)
		c.echoText(ev.Output)
	case ActionFail:
		if ev.FailedBuild != "" && c.buildFailed[ev.FailedBuild] {
			return
		}
		c.pkgFailed = append(c.pkgFailed, ev.Package)
	}
}

func (c *Collector) echoText(s string) {
	if c.echo != nil {
		io.WriteString(c.echo, s)
	}
}

// Finish flushes any unterminated line and reports everything collected.
// It must be called once, after the stream has ended.
func (c *Collector) Finish() {
	if len(c.partial) > 0 {
		c.handleLine(c.partial)
		c.partial = nil
	}

	for _, importPath := range c.buildOrder {
		c.result.AddError(importPath+" [build failed]", builderFor(c.buildOutput, importPath).String())
	}

	failedPkgs := make(map[string]bool)
	for _, st := range c.order {
		leaf := len(st.children) == 0
		if leaf {
			c.result.StartTest(displayName(st))
		}

		switch st.status {
		case ActionFail:
			failedPkgs[st.pkg] = true
			if !subtestFailed(st) {
				c.result.AddFailure(displayName(st), st.output.String())
			}
		case ActionSkip:
			if leaf {
				c.result.AddSkip(displayName(st), st.output.String())
			}
		case "":
			failedPkgs[st.pkg] = true
			if leaf {
				c.result.AddError(displayName(st), st.output.String()+"test did not finish\n")
			}
		}
	}

	for _, pkg := range c.pkgFailed {
		if failedPkgs[pkg] {
			continue
		}
		failedPkgs[pkg] = true
		c.result.AddError(pkg, builderFor(c.pkgOutput, pkg).String())
	}
}

// subtestFailed reports whether any subtest of this execution, at any depth,
// failed or did not finish
func subtestFailed(st *testState) bool {
	for _, child := range st.children {
		if child.status != ActionPass && child.status != ActionSkip {
			return true
		}
		if subtestFailed(child) {
			return true
		}
	}
	return false
}

func displayName(st *testState) string {
	if st.pkg == "" {
		return st.name
	}
	return fmt.Sprintf("%s (%s)", st.name, st.pkg)
}

func builderFor(m map[string]*strings.Builder, key string) *strings.Builder {
	b, ok := m[key]
	if !ok {
		b = &strings.Builder{}
		m[key] = b
	}
	return b
}
