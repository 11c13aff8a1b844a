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

// Package gitutil runs the external git binary and reports timings for the
// commands it executes.
package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/google/shlex"
	"github.com/jonboulle/clockwork"
	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
)

// Runner runs git commands in a local git repo.
type Runner struct {
	// gitArgs is the resolved git binary plus any leading arguments parsed
	// from the command override.
	gitArgs []string

	// Dir is the directory the commands are run in.
	Dir string

	// env is the environment snapshot taken when the runner was created.
	// Commands receive a copy so the snapshot is never mutated.
	env []string

	// clock measures command durations. Tests inject a fake.
	clock clockwork.Clock

	// Verbose mirrors command output to the process streams.
	Verbose bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the clock used to measure command durations.
func WithClock(c clockwork.Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithEnv adds environment variables on top of the snapshot taken at
// construction. Later values win over the snapshot.
func WithEnv(vars ...string) Option {
	return func(r *Runner) {
		r.env = append(r.env, vars...)
	}
}

// WithVerbose mirrors all command output to stdout/stderr.
func WithVerbose(verbose bool) Option {
	return func(r *Runner) {
		r.Verbose = verbose
	}
}

// NewRunner returns a Runner bound to the repository directory dir.
// gitCommand is the command used to invoke git; it may carry leading
// arguments ("git -c protocol.version=2") and is parsed with shell quoting
// rules. An empty gitCommand means plain "git".
func NewRunner(gitCommand, dir string, opts ...Option) (*Runner, error) {
	const op errors.Op = "gitutil.NewRunner"
	if gitCommand == "" {
		gitCommand = "git"
	}
	parts, err := shlex.Split(gitCommand)
	if err != nil {
		return nil, errors.E(op, errors.InvalidParam,
			fmt.Errorf("git command %q must be valid: %w", gitCommand, err))
	}
	if len(parts) == 0 {
		return nil, errors.E(op, errors.MissingParam, "git command is empty")
	}
	p, err := exec.LookPath(parts[0])
	if err != nil {
		return nil, errors.E(op, errors.Git, &GitExecError{
			Type: GitExecutableNotFound,
			Err:  fmt.Errorf("no %q program on path: %w", parts[0], err),
		})
	}
	parts[0] = p

	r := &Runner{
		gitArgs: parts,
		Dir:     dir,
		env:     os.Environ(),
		clock:   clockwork.NewRealClock(),
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// RunResult carries the outcome of a single git command.
type RunResult struct {
	Stdout string
	Stderr string

	// ExitCode is the child process exit code. Zero on success and for
	// commands that never started.
	ExitCode int

	// Duration covers the full child process lifetime.
	Duration time.Duration
}

// Run runs a git command in the runner's directory.
// Omit the 'git' part of the command. Any non-zero exit is returned as an
// error carrying the captured output.
func (r *Runner) Run(ctx context.Context, command string, args ...string) (RunResult, error) {
	return r.run(ctx, nil, command, args...)
}

// RunStdin is Run with the command's stdin connected to the given reader.
// Used to deliver note payloads without hitting argument length limits.
func (r *Runner) RunStdin(ctx context.Context, stdin io.Reader, command string, args ...string) (RunResult, error) {
	return r.run(ctx, stdin, command, args...)
}

// run runs a git command and fails on any non-zero exit.
func (r *Runner) run(ctx context.Context, stdin io.Reader, command string, args ...string) (RunResult, error) {
	const op errors.Op = "gitutil.run"

	res, execErr, err := r.start(ctx, stdin, command, args)
	if err != nil {
		return RunResult{}, errors.E(op, errors.Git, err)
	}
	if execErr != nil {
		return RunResult{}, errors.E(op, errors.Git, execErr)
	}
	return res, nil
}

// Exec runs a git command and reports the outcome without treating a
// non-zero exit as an error: the result carries the exit code, output and
// duration, and the caller decides. Only a command that could not be
// started at all produces an error.
func (r *Runner) Exec(ctx context.Context, command string, args ...string) (RunResult, error) {
	const op errors.Op = "gitutil.Exec"

	res, execErr, err := r.start(ctx, nil, command, args)
	if err != nil {
		return res, errors.E(op, errors.Git, err)
	}
	if execErr != nil {
		res.ExitCode = execErr.ExitCode
	}
	return res, nil
}

// start executes the command and splits failures into non-zero exits
// (returned as *GitExecError) and process start failures (returned as a
// plain error).
func (r *Runner) start(ctx context.Context, stdin io.Reader, command string, args []string) (RunResult, *GitExecError, error) {
	fullArgs := make([]string, 0, len(r.gitArgs)+len(args))
	fullArgs = append(fullArgs, r.gitArgs[1:]...)
	fullArgs = append(fullArgs, command)
	fullArgs = append(fullArgs, args...)

	cmd := exec.CommandContext(ctx, r.gitArgs[0], fullArgs...)
	cmd.Dir = r.Dir
	cmd.Env = r.commandEnv()
	cmd.Stdin = stdin

	cmdStdout := &bytes.Buffer{}
	cmdStderr := &bytes.Buffer{}
	if r.Verbose {
		cmd.Stdout = io.MultiWriter(cmdStdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(cmdStderr, os.Stderr)
	} else {
		cmd.Stdout = cmdStdout
		cmd.Stderr = cmdStderr
	}

	start := r.clock.Now()
	err := cmd.Run()
	duration := r.clock.Since(start)

	res := RunResult{
		Stdout:   cmdStdout.String(),
		Stderr:   cmdStderr.String(),
		Duration: duration,
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, nil, fmt.Errorf("unable to start git %s: %w", command, err)
		}
		gitErr := &GitExecError{
			Command:  command,
			Args:     args,
			Err:      err,
			ExitCode: exitErr.ExitCode(),
			StdOut:   res.Stdout,
			StdErr:   res.Stderr,
		}
		gitErr.Type = determineErrorType(gitErr.StdErr)
		return res, gitErr, nil
	}
	return res, nil, nil
}

// commandEnv returns a fresh copy of the environment for one command.
func (r *Runner) commandEnv() []string {
	env := make([]string, len(r.env))
	copy(env, r.env)
	return env
}
