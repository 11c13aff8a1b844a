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

// Package cmdgen contains the gen command.
package cmdgen

import (
	"context"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mm-zacharydavison/git-ai-bench/internal/bench"
	"github.com/mm-zacharydavison/git-ai-bench/internal/dlog"
	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
	"github.com/mm-zacharydavison/git-ai-bench/internal/synth"
	"github.com/mm-zacharydavison/git-ai-bench/internal/types"
	"github.com/mm-zacharydavison/git-ai-bench/internal/util/cmdutil"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer"
)

const (
	shortDocs = "Synthesize a repository with annotated commits"

	longDocs = `
gen builds a repository holding --commits commits, the first --notes of
them carrying an authorship note, and publishes it at DIR. The
repository is built in a scratch directory first, so DIR appears fully
formed or not at all.
`

	exampleDocs = `
  # a repository with 1000 annotated commits
  $ git-ai-bench gen ./origin

  # 500 commits, only the first 100 annotated
  $ git-ai-bench gen --commits 500 --notes 100 ./origin
`
)

// NewRunner returns a command runner.
func NewRunner(ctx context.Context, v *viper.Viper) *Runner {
	r := &Runner{
		ctx: ctx,
		v:   v,
	}
	c := &cobra.Command{
		Use:     "gen DIR",
		Args:    cobra.ExactArgs(1),
		Short:   shortDocs,
		Long:    shortDocs + "\n" + longDocs,
		Example: exampleDocs,
		PreRunE: r.preRunE,
		RunE:    r.runE,
	}
	r.Command = c
	c.Flags().IntVar(&r.commits, "commits", 1000,
		"number of commits to create")
	c.Flags().IntVar(&r.notes, "notes", 1000,
		"number of commits to annotate, counted from the first")
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

	commits int
	notes   int

	// Config is the validated repository size, populated by preRunE.
	Config bench.Config

	log *zap.Logger
}

func (r *Runner) preRunE(_ *cobra.Command, args []string) error {
	const op errors.Op = "cmdgen.preRunE"

	cfg, err := bench.NewConfig(r.commits, r.notes)
	if err != nil {
		return errors.E(op, err)
	}
	r.Config = cfg

	log, err := dlog.GetLogger(r.v.GetString("log-level"))
	if err != nil {
		return errors.E(op, errors.InvalidParam, err)
	}
	r.log = log

	if _, err := os.Stat(args[0]); err == nil {
		return errors.E(op, errors.Exist, &synth.DestinationExistsError{Path: args[0]})
	}

	gitVersion, err := gitutil.Preflight(r.ctx, r.v.GetString("git"))
	if err != nil {
		return errors.E(op, err)
	}
	r.log.Debug("git preflight passed", zap.String("version", gitVersion))
	return nil
}

func (r *Runner) runE(_ *cobra.Command, args []string) error {
	const op errors.Op = "cmdgen.runE"
	pr := printer.FromContextOrDie(r.ctx)
	dest := args[0]

	scratch, err := os.MkdirTemp(r.v.GetString("workdir"), "git-ai-bench-*")
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	defer os.RemoveAll(scratch)

	opts := synth.Options{
		GitCommand: r.v.GetString("git"),
		Verbose:    r.v.GetString("log-level") == dlog.LogLevelDebug,
	}
	origin, err := synth.CreateOrigin(r.ctx, filepath.Join(scratch, "origin"),
		r.Config.Commits, r.Config.Notes, opts)
	if err != nil {
		return cmdutil.WrapStack(errors.E(op, err))
	}

	// Publish only the fully built repository.
	if err := copy.Copy(origin.Path.String(), dest); err != nil {
		return cmdutil.WrapStack(errors.E(op, errors.IO, types.UniquePath(dest), err))
	}

	pr.Printf("\nRepository ready at %s\n", dest)
	return nil
}
