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

package bench

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
	"github.com/mm-zacharydavison/git-ai-bench/internal/synth"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer"
	"go.uber.org/zap"
)

// StepResult is the outcome of one measured git command. Failed steps
// still carry their duration; a slow failure is as interesting as a slow
// success.
type StepResult struct {
	// Duration covers the full command, success or not.
	Duration time.Duration

	// ExitCode is the git exit code.
	ExitCode int

	// Failed marks a non-zero exit.
	Failed bool

	// Stderr holds the captured diagnostics of a failed step.
	Stderr string
}

// RoundResult is the outcome of one measured round.
type RoundResult struct {
	// TotalNotes is the note count of the scale point the round ran at.
	TotalNotes int

	// NewNotes is the batch size appended before measuring.
	NewNotes int

	Fetch StepResult
	Merge StepResult
}

// Failed reports whether any step in the round failed.
func (r RoundResult) Failed() bool {
	return r.Fetch.Failed || r.Merge.Failed
}

// Total is the combined duration of the measured steps.
func (r RoundResult) Total() time.Duration {
	return r.Fetch.Duration + r.Merge.Duration
}

// Driver runs measured rounds against one origin/replica pair.
type Driver struct {
	origin   *synth.Origin
	replica  *synth.Replica
	scale    Config
	strategy string
	log      *zap.Logger
}

// NewDriver pairs an origin with its replica for one scale point.
func NewDriver(origin *synth.Origin, replica *synth.Replica, scale Config, strategy string, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		origin:   origin,
		replica:  replica,
		scale:    scale,
		strategy: strategy,
		log:      log,
	}
}

// Round appends batch annotated commits to the origin, then measures the
// replica's notes fetch and merge. Both steps always run; a failed fetch
// does not skip the merge, so the round reflects what a real sync would
// attempt. Measured failures are recorded in the result, not returned as
// errors. Only workload setup failures surface as errors.
func (d *Driver) Round(ctx context.Context, batch int) (RoundResult, error) {
	const op errors.Op = "bench.Round"
	pr := printer.FromContextOrDie(ctx)

	pr.Printf("\nBenchmarking with %d new commits and notes...\n", batch)
	if err := d.origin.AppendNotes(ctx, batch); err != nil {
		return RoundResult{}, errors.E(op, err)
	}

	result := RoundResult{
		TotalNotes: d.scale.Notes,
		NewNotes:   batch,
	}

	fetch, err := d.replica.FetchNotes(ctx)
	if err != nil {
		return RoundResult{}, errors.E(op, err)
	}
	result.Fetch = stepResult(fetch)
	d.log.Debug("fetched notes",
		zap.Int("exit_code", fetch.ExitCode),
		zap.Duration("duration", fetch.Duration))

	merge, err := d.replica.MergeNotes(ctx, d.strategy)
	if err != nil {
		return RoundResult{}, errors.E(op, err)
	}
	result.Merge = stepResult(merge)
	d.log.Debug("merged notes",
		zap.String("strategy", d.strategy),
		zap.Int("exit_code", merge.ExitCode),
		zap.Duration("duration", merge.Duration))

	writeRound(pr, result)
	return result, nil
}

// stepResult condenses a command outcome into the measured step record.
func stepResult(res gitutil.RunResult) StepResult {
	s := StepResult{
		Duration: res.Duration,
		ExitCode: res.ExitCode,
	}
	if res.ExitCode != 0 {
		s.Failed = true
		s.Stderr = strings.TrimSpace(res.Stderr)
	}
	return s
}

// writeRound prints one measured round in the progress stream.
func writeRound(pr printer.Printer, r RoundResult) {
	pr.Printf("  With %d new remote notes:\n", r.NewNotes)
	pr.Printf("    Fetch time:  %s\n", stepLine(r.Fetch))
	pr.Printf("    Merge time:  %s\n", stepLine(r.Merge))
	pr.Printf("    Total time:  %.3fs\n", r.Total().Seconds())
}

// stepLine renders one measured step, marking failed commands without
// dropping their timing.
func stepLine(s StepResult) string {
	if s.Failed {
		return fmt.Sprintf("%.3fs (FAILED, exit %d)", s.Duration.Seconds(), s.ExitCode)
	}
	return fmt.Sprintf("%.3fs", s.Duration.Seconds())
}
