package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// labelWidth is the column every status label is right-padded to,
// matching Cargo's own right-justified "   Compiling" / "    Finished"
// status-line convention.
const labelWidth = 12

var stageColors = map[Stage]*color.Color{
	StageResolving: color.New(color.FgGreen, color.Bold),
	StageFetched:   color.New(color.FgGreen, color.Bold),
	StageCompiling: color.New(color.FgGreen, color.Bold),
	StageFinished:  color.New(color.FgGreen, color.Bold),
	StagePackaging: color.New(color.FgGreen, color.Bold),
	StageWarning:   color.New(color.FgYellow, color.Bold),
}

// BarReporter renders stage-switch status lines, with an in-place
// carriage-return-updated progress bar while StageCompiling events
// carry a bounded Current/Total.
type BarReporter struct {
	writer      io.Writer
	mu          sync.Mutex
	barWidth    int
	lastLineLen int
}

// NewBarReporter creates a reporter writing to w (typically os.Stderr).
func NewBarReporter(w io.Writer) *BarReporter {
	return &BarReporter{writer: w, barWidth: 25}
}

// Report renders event, clearing any in-progress bar first unless the
// event is itself a bar update.
func (r *BarReporter) Report(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.normalize()

	if event.Stage == StageCompiling && event.Total > 0 {
		r.updateBar(event)
		return
	}

	r.clearLine()
	label := r.renderLabel(event.Stage)
	if event.Message != "" {
		fmt.Fprintf(r.writer, "%s %s\n", label, event.Message)
	} else {
		fmt.Fprintf(r.writer, "%s\n", label)
	}
}

func (r *BarReporter) renderLabel(stage Stage) string {
	text := string(stage)
	pad := labelWidth - len(text)
	if pad < 0 {
		pad = 0
	}
	padded := strings.Repeat(" ", pad) + text
	c, ok := stageColors[stage]
	if !ok {
		return padded
	}
	return c.Sprint(padded)
}

func (r *BarReporter) updateBar(event Event) {
	line := r.buildBar(event)

	if r.lastLineLen > 0 {
		fmt.Fprint(r.writer, "\r", strings.Repeat(" ", r.lastLineLen), "\r")
	}
	fmt.Fprint(r.writer, line)
	r.lastLineLen = len(line)

	if event.Current >= event.Total {
		fmt.Fprint(r.writer, "\n")
		r.lastLineLen = 0
	}
}

func (r *BarReporter) buildBar(event Event) string {
	percent := float64(event.Current) / float64(event.Total) * 100.0
	filled := int(float64(r.barWidth) * percent / 100.0)
	if filled > r.barWidth {
		filled = r.barWidth
	}
	bar := fmt.Sprintf("|%s%s|", strings.Repeat("█", filled), strings.Repeat("░", r.barWidth-filled))
	label := r.renderLabel(StageCompiling)
	return fmt.Sprintf("%s %3d%% %s %d/%d  %s", label, int(percent), bar, event.Current, event.Total, event.Message)
}

func (r *BarReporter) clearLine() {
	if r.lastLineLen > 0 {
		fmt.Fprint(r.writer, "\r", strings.Repeat(" ", r.lastLineLen), "\r")
		r.lastLineLen = 0
	}
}
