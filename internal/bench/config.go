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

// Package bench drives the measured workload: appending annotated commits
// on the origin and timing the notes fetch/merge cycle in the clone,
// across a matrix of repository scales.
package bench

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"go.uber.org/zap"
)

// Config is one scale point: the size of the synthesized origin.
type Config struct {
	// Commits is the number of commits in the origin.
	Commits int

	// Notes is the number of annotated commits. Never exceeds Commits.
	Notes int
}

// NewConfig validates one scale point. Commits must be positive and notes
// cannot exceed commits, since each note annotates a distinct commit. A
// zero note count is allowed; it measures the cost of syncing against a
// note-less origin.
func NewConfig(commits, notes int) (Config, error) {
	const op errors.Op = "bench.NewConfig"
	if commits <= 0 {
		return Config{}, errors.E(op, errors.InvalidParam,
			fmt.Errorf("commits must be positive, got %d", commits))
	}
	if notes < 0 {
		return Config{}, errors.E(op, errors.InvalidParam,
			fmt.Errorf("notes must be non-negative, got %d", notes))
	}
	if notes > commits {
		return Config{}, errors.E(op, errors.InvalidParam,
			fmt.Errorf("notes (%d) cannot exceed commits (%d)", notes, commits))
	}
	return Config{Commits: commits, Notes: notes}, nil
}

// DefaultConfigs returns the scale matrix measured when no override is
// given.
func DefaultConfigs() []Config {
	return []Config{
		{Commits: 1000, Notes: 1000},
		{Commits: 10000, Notes: 10000},
		{Commits: 50000, Notes: 50000},
		{Commits: 100000, Notes: 100000},
	}
}

// DefaultBatchSizes returns the per-round batch sizes measured within each
// configuration.
func DefaultBatchSizes() []int {
	return []int{10, 100, 500, 1000}
}

// DefaultMergeStrategy matches the modeled workload: local notes win over
// fetched ones.
const DefaultMergeStrategy = "ours"

// mergeStrategies are the strategies `git notes merge -s` accepts.
var mergeStrategies = map[string]bool{
	"manual":        true,
	"ours":          true,
	"theirs":        true,
	"union":         true,
	"cat_sort_uniq": true,
}

// knownMergeStrategies lists the accepted strategies for error messages.
func knownMergeStrategies() string {
	keys := make([]string, 0, len(mergeStrategies))
	for k := range mergeStrategies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// Experiment is a validated benchmark plan.
type Experiment struct {
	// Configs are the scale points, measured in order.
	Configs []Config

	// BatchSizes are the per-round batches within each scale point.
	BatchSizes []int

	// MergeStrategy is passed to `git notes merge -s`.
	MergeStrategy string

	// WorkDir is the parent for the experiment workspace. Empty means the
	// system temp dir.
	WorkDir string

	// Keep leaves the workspace behind instead of removing it.
	Keep bool

	// GitCommand overrides the git invocation. Empty means plain "git".
	GitCommand string

	// Verbose mirrors git output to the process streams.
	Verbose bool

	log *zap.Logger
}

// ExperimentOption configures optional experiment behavior.
type ExperimentOption func(*Experiment)

// WithWorkDir places the experiment workspace under dir.
func WithWorkDir(dir string) ExperimentOption {
	return func(e *Experiment) {
		e.WorkDir = dir
	}
}

// WithKeep leaves the workspace behind after the run.
func WithKeep(keep bool) ExperimentOption {
	return func(e *Experiment) {
		e.Keep = keep
	}
}

// WithGitCommand overrides the git invocation for every repository.
func WithGitCommand(cmd string) ExperimentOption {
	return func(e *Experiment) {
		e.GitCommand = cmd
	}
}

// WithVerbose mirrors git output to the process streams.
func WithVerbose(verbose bool) ExperimentOption {
	return func(e *Experiment) {
		e.Verbose = verbose
	}
}

// WithLogger sets the debug logger.
func WithLogger(log *zap.Logger) ExperimentOption {
	return func(e *Experiment) {
		e.log = log
	}
}

// NewExperiment validates a benchmark plan. Configs must already be
// well-formed scale points, batch sizes must be positive, and the merge
// strategy must be one git accepts.
func NewExperiment(configs []Config, batchSizes []int, strategy string, opts ...ExperimentOption) (*Experiment, error) {
	const op errors.Op = "bench.NewExperiment"
	if len(configs) == 0 {
		return nil, errors.E(op, errors.MissingParam, "at least one configuration is required")
	}
	for _, c := range configs {
		if _, err := NewConfig(c.Commits, c.Notes); err != nil {
			return nil, errors.E(op, err)
		}
	}
	if len(batchSizes) == 0 {
		return nil, errors.E(op, errors.MissingParam, "at least one batch size is required")
	}
	for _, b := range batchSizes {
		if b <= 0 {
			return nil, errors.E(op, errors.InvalidParam,
				fmt.Errorf("batch sizes must be positive, got %d", b))
		}
	}
	if !mergeStrategies[strategy] {
		return nil, errors.E(op, errors.InvalidParam,
			fmt.Errorf("unknown merge strategy %q, expected one of: %s", strategy, knownMergeStrategies()))
	}

	e := &Experiment{
		Configs:       configs,
		BatchSizes:    batchSizes,
		MergeStrategy: strategy,
		log:           zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}
