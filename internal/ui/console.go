// File: internal/ui/console.go
// Brief: Line-based console for staged task runs.

package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

type RunConsoleOptions struct {
	NoColor bool
	Width   int
}

// RunConsole prints one line per task event. It is safe for concurrent use;
// tasks inside a stage finish in arbitrary order.
type RunConsole struct {
	out  io.Writer
	opts RunConsoleOptions

	mu sync.Mutex

	stage *color.Color
	ok    *color.Color
	fail  *color.Color
	dim   *color.Color
}

func NewRunConsole(out io.Writer, opts RunConsoleOptions) *RunConsole {
	if opts.Width <= 0 {
		if cols, ok := TerminalWidth(out); ok {
			opts.Width = cols
		}
	}
	c := &RunConsole{
		out:   out,
		opts:  opts,
		stage: color.New(color.FgCyan, color.Bold),
		ok:    color.New(color.FgGreen),
		fail:  color.New(color.FgRed, color.Bold),
		dim:   color.New(color.Faint),
	}
	if opts.NoColor {
		for _, col := range []*color.Color{c.stage, c.ok, c.fail, c.dim} {
			col.DisableColor()
		}
	}
	return c
}

func (c *RunConsole) StageStart(index, total, taskCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	noun := "tasks"
	if taskCount == 1 {
		noun = "task"
	}
	fmt.Fprintf(c.out, "%s %s\n", c.stage.Sprintf("stage %d/%d", index+1, total), c.dim.Sprintf("(%d %s)", taskCount, noun))
}

func (c *RunConsole) TaskStart(key, executable string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  %s %s\n", key, c.dim.Sprint(c.truncate(executable)))
}

func (c *RunConsole) TaskDone(key string, elapsed time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		fmt.Fprintf(c.out, "  %s %s %s\n", c.fail.Sprint("FAIL"), key, c.dim.Sprint(elapsed.Round(time.Millisecond).String()))
		return
	}
	fmt.Fprintf(c.out, "  %s %s %s\n", c.ok.Sprint("ok"), key, c.dim.Sprint(elapsed.Round(time.Millisecond).String()))
}

func (c *RunConsole) TaskSkipped(key, executable string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  %s %s %s\n", c.dim.Sprint("would run"), key, c.dim.Sprint(c.truncate(executable)))
}

func (c *RunConsole) Summary(taskCount, failures int, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if failures > 0 {
		fmt.Fprintf(c.out, "%s %d/%d tasks failed in %s\n", c.fail.Sprint("FAIL"), failures, taskCount, elapsed.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(c.out, "%s %d tasks in %s\n", c.ok.Sprint("ok"), taskCount, elapsed.Round(time.Millisecond))
}

func (c *RunConsole) truncate(s string) string {
	// Leave room for the indent and status columns.
	limit := c.opts.Width - 24
	if c.opts.Width <= 0 || limit <= 3 || len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
