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

// Package cmdrun contains the run command.
package cmdrun

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mm-zacharydavison/git-ai-bench/internal/bench"
	"github.com/mm-zacharydavison/git-ai-bench/internal/dlog"
	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
	"github.com/mm-zacharydavison/git-ai-bench/internal/report"
	"github.com/mm-zacharydavison/git-ai-bench/internal/util/cmdutil"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer"
)

const (
	shortDocs = "Measure notes fetch and merge latency as a repository grows"

	longDocs = `
run synthesizes an origin repository for every scale point, clones it,
and then repeatedly publishes batches of fresh annotated commits on the
origin while timing the clone fetching and merging the authorship notes
ref. All measured rounds print as one summary table at the end.

Without arguments the default scale matrix is measured. With TOTAL, a
single scale point of TOTAL commits and TOTAL notes is measured.
`

	exampleDocs = `
  # measure the default scale matrix
  $ git-ai-bench run

  # one scale point of 5000 commits and notes, custom batches
  $ git-ai-bench run 5000 --batch-sizes 10,1000

  # read the matrix from a file and keep the workspace for inspection
  $ git-ai-bench run --config experiment.yaml --keep
`
)

// NewRunner returns a command runner.
func NewRunner(ctx context.Context, v *viper.Viper) *Runner {
	r := &Runner{
		ctx: ctx,
		v:   v,
	}
	c := &cobra.Command{
		Use:     "run [TOTAL]",
		Args:    cobra.MaximumNArgs(1),
		Short:   shortDocs,
		Long:    shortDocs + "\n" + longDocs,
		Example: exampleDocs,
		PreRunE: r.preRunE,
		RunE:    r.runE,
	}
	r.Command = c
	c.Flags().IntSliceVar(&r.batchSizes, "batch-sizes", bench.DefaultBatchSizes(),
		"batch sizes measured within each scale point")
	c.Flags().StringVar(&r.mergeStrategy, "merge-strategy", bench.DefaultMergeStrategy,
		"notes merge strategy passed to git")
	c.Flags().BoolVar(&r.keep, "keep", false,
		"keep the scratch workspace instead of removing it")
	c.Flags().StringVar(&r.configPath, "config", "",
		"path to a YAML experiment file; explicit flags win over its values")
	return r
}

func NewCommand(ctx context.Context, v *viper.Viper) *cobra.Command {
	return NewRunner(ctx, v).Command
}

// Runner contains the run function.
type Runner struct {
	ctx     context.Context
	v       *viper.Viper
	Command *cobra.Command

	batchSizes    []int
	mergeStrategy string
	keep          bool
	configPath    string

	// Experiment is the validated plan, populated by preRunE.
	Experiment *bench.Experiment

	log *zap.Logger
}

func (r *Runner) preRunE(c *cobra.Command, args []string) error {
	const op errors.Op = "cmdrun.preRunE"

	logLevel := r.v.GetString("log-level")
	log, err := dlog.GetLogger(logLevel)
	if err != nil {
		return errors.E(op, errors.InvalidParam, err)
	}
	r.log = log

	configs := bench.DefaultConfigs()
	batchSizes := r.batchSizes
	strategy := r.mergeStrategy

	if r.configPath != "" {
		plan, err := bench.LoadExperimentFile(r.configPath)
		if err != nil {
			return errors.E(op, err)
		}
		if len(plan.Configs) > 0 {
			configs = plan.Configs
		}
		if len(plan.BatchSizes) > 0 && !c.Flags().Changed("batch-sizes") {
			batchSizes = plan.BatchSizes
		}
		if plan.MergeStrategy != "" && !c.Flags().Changed("merge-strategy") {
			strategy = plan.MergeStrategy
		}
	}

	// A positional TOTAL overrides any configured matrix.
	if len(args) == 1 {
		total, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.E(op, errors.InvalidParam,
				fmt.Errorf("TOTAL must be an integer, got %q", args[0]))
		}
		cfg, err := bench.NewConfig(total, total)
		if err != nil {
			return errors.E(op, err)
		}
		configs = []bench.Config{cfg}
	}

	gitCommand := r.v.GetString("git")
	gitVersion, err := gitutil.Preflight(r.ctx, gitCommand)
	if err != nil {
		return errors.E(op, err)
	}
	r.log.Debug("git preflight passed", zap.String("version", gitVersion))

	exp, err := bench.NewExperiment(configs, batchSizes, strategy,
		bench.WithWorkDir(r.v.GetString("workdir")),
		bench.WithKeep(r.keep),
		bench.WithGitCommand(gitCommand),
		bench.WithVerbose(logLevel == dlog.LogLevelDebug),
		bench.WithLogger(r.log),
	)
	if err != nil {
		return errors.E(op, err)
	}
	r.Experiment = exp
	return nil
}

func (r *Runner) runE(*cobra.Command, []string) error {
	const op errors.Op = "cmdrun.runE"
	defer func() {
		_ = r.log.Sync()
	}()

	measurements, err := r.Experiment.Run(r.ctx)
	if err != nil {
		return cmdutil.WrapStack(errors.E(op, err))
	}

	report.WriteSummary(printer.FromContextOrDie(r.ctx).OutStream(), measurements)
	return nil
}
