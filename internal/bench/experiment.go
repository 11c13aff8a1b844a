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
	"os"
	"path/filepath"
	"strings"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/synth"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const bannerWidth = 60

// Measurement collects the rounds measured at one scale point.
type Measurement struct {
	Config Config
	Rounds []RoundResult
}

// Run executes the full experiment matrix and returns one measurement per
// scale point. Every scale point gets a freshly synthesized origin and
// clone in its own workspace subdirectory, torn down before the next
// point starts unless the experiment keeps its workspace.
func (e *Experiment) Run(ctx context.Context) ([]Measurement, error) {
	const op errors.Op = "bench.Run"
	pr := printer.FromContextOrDie(ctx)

	workspace, err := os.MkdirTemp(e.WorkDir, "git-ai-bench-*")
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	e.log.Debug("created workspace", zap.String("path", workspace))
	if e.Keep {
		pr.Printf("Keeping workspace: %s\n", workspace)
	} else {
		defer os.RemoveAll(workspace)
	}

	opts := synth.Options{GitCommand: e.GitCommand, Verbose: e.Verbose}
	npr := message.NewPrinter(language.English)

	var measurements []Measurement
	for i, cfg := range e.Configs {
		rule := strings.Repeat("=", bannerWidth)
		pr.Printf("\n%s\n", rule)
		pr.Printf("Testing with %s commits and %s notes\n",
			npr.Sprintf("%d", cfg.Commits), npr.Sprintf("%d", cfg.Notes))
		pr.Printf("%s\n", rule)

		scaleDir := filepath.Join(workspace, fmt.Sprintf("scale-%d", i))
		m, err := e.runScale(ctx, scaleDir, cfg, opts)
		if err != nil {
			return nil, errors.E(op, err)
		}
		measurements = append(measurements, m)

		// The biggest scale points are disk-hungry; reclaim the space
		// before synthesizing the next one.
		if !e.Keep {
			if err := os.RemoveAll(scaleDir); err != nil {
				return nil, errors.E(op, errors.IO, err)
			}
		}
	}
	return measurements, nil
}

// runScale synthesizes one origin/clone pair and measures every batch size
// against it.
func (e *Experiment) runScale(ctx context.Context, dir string, cfg Config, opts synth.Options) (Measurement, error) {
	const op errors.Op = "bench.runScale"

	origin, err := synth.CreateOrigin(ctx, filepath.Join(dir, "origin"), cfg.Commits, cfg.Notes, opts)
	if err != nil {
		return Measurement{}, errors.E(op, err)
	}
	replica, err := synth.CloneForNotes(ctx, origin, filepath.Join(dir, "clone"), opts)
	if err != nil {
		return Measurement{}, errors.E(op, err)
	}

	driver := NewDriver(origin, replica, cfg, e.MergeStrategy, e.log)
	m := Measurement{Config: cfg}
	for _, batch := range e.BatchSizes {
		round, err := driver.Round(ctx, batch)
		if err != nil {
			return Measurement{}, errors.E(op, err)
		}
		m.Rounds = append(m.Rounds, round)
	}
	return m, nil
}
