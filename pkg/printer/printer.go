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

// Package printer defines utilities to display git-ai-bench CLI output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mm-zacharydavison/git-ai-bench/internal/types"
)

// Printer abstracts away printing output in the CLI so the UX can evolve
// without touching callers. Progress and diagnostics go to the error
// stream; only data meant for consumption (report tables) goes to the out
// stream.
type Printer interface {
	PrintRepo(repo types.DisplayPath, leadingNewline bool)
	Printf(format string, args ...interface{})
	OptPrintf(opt *Options, format string, args ...interface{})
	OutStream() io.Writer
	ErrStream() io.Writer
}

// Options are optional options for printer
type Options struct {
	// RepoPath is the unique path to the repository
	RepoPath types.UniquePath
	// RepoDisplayPath is the display path for the repository
	RepoDisplayPath types.DisplayPath
}

// NewOpt returns a pointer to new options
func NewOpt() *Options {
	return &Options{}
}

// Repo sets the repository unique path in options
func (opt *Options) Repo(p types.UniquePath) *Options {
	opt.RepoPath = p
	return opt
}

// RepoDisplay sets the repository display path in options
func (opt *Options) RepoDisplay(p types.DisplayPath) *Options {
	opt.RepoDisplayPath = p
	return opt
}

// New returns an instance of Printer.
func New(outStream, errStream io.Writer) Printer {
	if outStream == nil {
		outStream = os.Stdout
	}
	if errStream == nil {
		errStream = os.Stderr
	}
	return &printer{
		outStream: outStream,
		errStream: errStream,
	}
}

// printer implements the default Printer used in the codebase.
type printer struct {
	outStream io.Writer
	errStream io.Writer
}

// The key type is unexported to prevent collisions with context keys defined in
// other packages.
type contextKey int

// printerKey is the context key for the printer.  Its value of zero is
// arbitrary.  If this package defined other context keys, they would have
// different integer values.
const printerKey contextKey = 0

// OutStream returns the StdOut stream, this can be used by callers to print
// command output to stdout, do not print error/debug logs to this stream
func (pr *printer) OutStream() io.Writer {
	return pr.outStream
}

// ErrStream returns the StdErr stream, this can be used by callers to print
// command output to stderr, print only error/debug/info logs to this stream
func (pr *printer) ErrStream() io.Writer {
	return pr.errStream
}

// PrintRepo prints the repository display path to stderr
func (pr *printer) PrintRepo(repo types.DisplayPath, leadingNewline bool) {
	if leadingNewline {
		fmt.Fprint(pr.errStream, "\n")
	}
	fmt.Fprintf(pr.errStream, "Repository %q:\n", repo)
}

// Printf is the wrapper over fmt.Printf that displays the output.
// this will print messages to stderr stream
func (pr *printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(pr.errStream, format, args...)
}

// OptPrintf is the wrapper over fmt.Printf that displays the output according
// to the opt, this will print messages to stderr stream
func (pr *printer) OptPrintf(opt *Options, format string, args ...interface{}) {
	if opt == nil {
		fmt.Fprintf(pr.errStream, format, args...)
		return
	}
	o := pr.errStream
	if !opt.RepoDisplayPath.Empty() {
		format = fmt.Sprintf("Repository %q: ", string(opt.RepoDisplayPath)) + format
	} else if !opt.RepoPath.Empty() {
		// try to print relative path of the repo if we can else use abs path
		relPath, err := opt.RepoPath.RelativePath()
		if err != nil {
			relPath = string(opt.RepoPath)
		}
		format = fmt.Sprintf("Repository %q: ", relPath) + format
	}
	fmt.Fprintf(o, format, args...)
}

// Helper functions to set and retrieve printer instance from a context.
// Defining them here avoids the context key collision.

// FromContextOrDie returns printer instance associated with the context.
func FromContextOrDie(ctx context.Context) Printer {
	pr, ok := ctx.Value(printerKey).(Printer)
	if ok {
		return pr
	}
	panic("printer missing in context")
}

// WithContext creates new context from the given parent context
// by setting the printer instance.
func WithContext(ctx context.Context, pr Printer) context.Context {
	return context.WithValue(ctx, printerKey, pr)
}
