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

// Package synth builds the synthetic repositories the harness measures: an
// origin populated with annotated commits, and a clone configured to track
// the origin's notes ref.
package synth

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
	"github.com/mm-zacharydavison/git-ai-bench/internal/notegen"
	"github.com/mm-zacharydavison/git-ai-bench/internal/types"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer"
)

// Identity recorded on every synthesized commit.
const (
	commitUserName  = "Test User"
	commitUserEmail = "test@example.com"
)

// progressEvery is the unit interval between progress lines while
// populating a repository.
const progressEvery = 1000

// appendIndexBase offsets appended note indexes away from the ones created
// at build time. Indexes restart at the base every batch; the commits they
// annotate are always fresh.
const appendIndexBase = 100000

// Options configure repository synthesis.
type Options struct {
	// GitCommand overrides the git invocation. Empty means plain "git".
	GitCommand string

	// Verbose mirrors git output to the process streams.
	Verbose bool
}

// Origin is a synthesized repository acting as the remote end of the
// benchmark.
type Origin struct {
	// Path is the repository directory.
	Path types.UniquePath

	runner *gitutil.Runner

	hashes []string
	notes  int
}

// CreateOrigin builds a repository at path holding the given number of
// commits, the first notes of them annotated with authorship payloads.
// The first git failure aborts the build.
func CreateOrigin(ctx context.Context, path string, commits, notes int, opts Options) (*Origin, error) {
	const op errors.Op = "synth.CreateOrigin"
	pr := printer.FromContextOrDie(ctx)

	if commits < 0 || notes < 0 || notes > commits {
		return nil, errors.E(op, errors.InvalidParam,
			fmt.Errorf("cannot attach %d notes to %d commits", notes, commits))
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, errors.E(op, errors.IO, err)
	}

	runner, err := gitutil.NewRunner(opts.GitCommand, path, gitutil.WithVerbose(opts.Verbose))
	if err != nil {
		return nil, errors.E(op, err)
	}
	o := &Origin{
		Path:   types.UniquePath(path),
		runner: runner,
	}

	pr.Printf("Creating %s with %d commits and %d notes...\n", filepath.Base(path), commits, notes)

	for _, args := range [][]string{
		{"init", "-b", "main"},
		{"config", "user.name", commitUserName},
		{"config", "user.email", commitUserEmail},
	} {
		if _, err := runner.Run(ctx, args[0], args[1:]...); err != nil {
			return nil, errors.E(op, o.Path, err)
		}
	}

	for i := 0; i < commits; i++ {
		hash, err := o.commit(ctx, fmt.Sprintf("Commit %d", i))
		if err != nil {
			return nil, errors.E(op, o.Path, fmt.Errorf("commit %d: %w", i, err))
		}
		o.hashes = append(o.hashes, hash)

		if (i+1)%progressEvery == 0 {
			pr.Printf("  Created %d commits...\n", i+1)
		}
	}

	for i := 0; i < notes; i++ {
		if err := o.annotate(ctx, i, o.hashes[i]); err != nil {
			return nil, errors.E(op, o.Path, fmt.Errorf("note %d: %w", i, err))
		}
		o.notes++

		if (i+1)%progressEvery == 0 {
			pr.Printf("  Created %d notes...\n", i+1)
		}
	}

	pr.Printf("  ✓ Created %s\n", filepath.Base(path))
	return o, nil
}

// AppendNotes adds count fresh commits to the origin, each carrying an
// authorship note, simulating work arriving from another clone. Note
// indexes start over at the append base for every batch.
func (o *Origin) AppendNotes(ctx context.Context, count int) error {
	const op errors.Op = "synth.AppendNotes"
	if count < 0 {
		return errors.E(op, errors.InvalidParam, fmt.Errorf("count %d is negative", count))
	}

	for i := 0; i < count; i++ {
		hash, err := o.commit(ctx, fmt.Sprintf("New commit %d", i))
		if err != nil {
			return errors.E(op, o.Path, fmt.Errorf("commit %d: %w", i, err))
		}
		o.hashes = append(o.hashes, hash)

		if err := o.annotate(ctx, appendIndexBase+i, hash); err != nil {
			return errors.E(op, o.Path, fmt.Errorf("note %d: %w", i, err))
		}
		o.notes++
	}
	return nil
}

// CommitCount returns the number of commits created so far.
func (o *Origin) CommitCount() int {
	return len(o.hashes)
}

// NoteCount returns the number of notes attached so far.
func (o *Origin) NoteCount() int {
	return o.notes
}

// Hashes returns the commit hashes in creation order.
func (o *Origin) Hashes() []string {
	out := make([]string, len(o.hashes))
	copy(out, o.hashes)
	return out
}

// commit rewrites the tracked file with message plus a newline and commits
// it, returning the new HEAD hash.
func (o *Origin) commit(ctx context.Context, message string) (string, error) {
	const op errors.Op = "synth.commit"
	file := filepath.Join(o.Path.String(), "test.txt")
	if err := os.WriteFile(file, []byte(message+"\n"), 0600); err != nil {
		return "", errors.E(op, errors.IO, err)
	}
	if _, err := o.runner.Run(ctx, "add", "test.txt"); err != nil {
		return "", err
	}
	if _, err := o.runner.Run(ctx, "commit", "-m", message); err != nil {
		return "", err
	}
	rr, err := o.runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(rr.Stdout), nil
}

// annotate attaches the payload for index to the commit. The payload goes
// over stdin to stay clear of argument length limits.
func (o *Origin) annotate(ctx context.Context, index int, hash string) error {
	payload, err := notegen.Render(index, hash)
	if err != nil {
		return err
	}
	_, err = o.runner.RunStdin(ctx, bytes.NewReader(payload),
		"notes", "--ref="+gitutil.NotesRefName, "add", "-f", "-F", "-", hash)
	return err
}
