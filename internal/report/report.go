// Copyright 2025 The git-ai-bench Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report renders measured results for people. All durations are
// printed in seconds with millisecond precision and counts are grouped
// the way the progress output groups them.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mm-zacharydavison/git-ai-bench/internal/bench"
)

const bannerWidth = 60

// npr groups counts for English readers, e.g. 100000 prints as 100,000.
var npr = message.NewPrinter(language.English)

// Count formats a count with thousands grouping.
func Count(n int) string {
	return npr.Sprintf("%d", n)
}

// Seconds formats a duration as seconds with three decimals.
func Seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// WriteSummary renders every measured round as one table, in measurement
// order. Failed steps print as FAILED(<exit>) instead of a duration, and
// rounds containing one get a marker on their total.
func WriteSummary(w io.Writer, measurements []bench.Measurement) {
	banner(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Total Notes", "New Notes", "Fetch (s)", "Merge (s)", "Total (s)"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	anyFailed := false
	for _, m := range measurements {
		for _, r := range m.Rounds {
			total := Seconds(r.Total())
			if r.Failed() {
				anyFailed = true
				total += "*"
			}
			t.AppendRow(table.Row{
				Count(r.TotalNotes),
				Count(r.NewNotes),
				stepCell(r.Fetch),
				stepCell(r.Merge),
				total,
			})
		}
	}
	t.Render()

	if anyFailed {
		fmt.Fprintf(w, "* includes a failed step; the duration covers the failed command\n")
	}
}

// banner writes the summary heading.
func banner(w io.Writer) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "\n%s\nSUMMARY\n%s\n\n", rule, rule)
}

// stepCell renders one measured step for the table.
func stepCell(s bench.StepResult) string {
	if s.Failed {
		return fmt.Sprintf("FAILED(%d)", s.ExitCode)
	}
	return Seconds(s.Duration)
}
