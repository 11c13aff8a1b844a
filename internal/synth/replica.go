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

package synth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
	"github.com/mm-zacharydavison/git-ai-bench/internal/types"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer"
)

// remoteName is the remote git configures in fresh clones.
const remoteName = "origin"

// Replica is a clone whose notes ref tracks the origin's.
type Replica struct {
	// Path is the clone directory.
	Path types.UniquePath

	// TrackingRef is where fetched origin notes land.
	TrackingRef string

	runner *gitutil.Runner
}

// DestinationExistsError is returned when a clone destination is already
// occupied. Destinations are never reused: measurements taken against a
// stale clone would be silently wrong.
type DestinationExistsError struct {
	Path types.UniquePath
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("destination %q already exists", e.Path.String())
}

// CloneForNotes clones the origin into dest and wires the clone up for
// notes syncing: the notes fetch refspec is added to the remote config,
// the tracking ref is populated, and the local notes ref is bootstrapped
// from it when the origin has notes. dest must not exist.
func CloneForNotes(ctx context.Context, origin *Origin, dest string, opts Options) (*Replica, error) {
	const op errors.Op = "synth.CloneForNotes"
	pr := printer.FromContextOrDie(ctx)

	if _, err := os.Stat(dest); err == nil {
		return nil, errors.E(op, errors.Exist, &DestinationExistsError{Path: types.UniquePath(dest)})
	} else if !os.IsNotExist(err) {
		return nil, errors.E(op, errors.IO, err)
	}

	pr.Printf("\nCloning repository...\n")

	parentRunner, err := gitutil.NewRunner(opts.GitCommand, filepath.Dir(dest), gitutil.WithVerbose(opts.Verbose))
	if err != nil {
		return nil, errors.E(op, err)
	}
	if _, err := parentRunner.Run(ctx, "clone", origin.Path.String(), dest); err != nil {
		gitutil.AmendGitExecError(err, func(e *gitutil.GitExecError) {
			e.Repo = origin.Path.String()
		})
		return nil, errors.E(op, errors.Repo(origin.Path), err)
	}

	runner, err := gitutil.NewRunner(opts.GitCommand, dest, gitutil.WithVerbose(opts.Verbose))
	if err != nil {
		return nil, errors.E(op, err)
	}
	r := &Replica{
		Path:        types.UniquePath(dest),
		TrackingRef: gitutil.TrackingRef(remoteName),
		runner:      runner,
	}

	refspec := gitutil.FetchRefspec(remoteName)
	if _, err := runner.Run(ctx, "config", "--add", "remote.origin.fetch", refspec); err != nil {
		return nil, errors.E(op, r.Path, err)
	}

	// The initial fetch fails when the origin has no notes ref yet. That is
	// only an error if the origin was built with notes.
	res, err := runner.Exec(ctx, "fetch", remoteName, refspec)
	if err != nil {
		return nil, errors.E(op, r.Path, err)
	}
	if res.ExitCode != 0 && origin.NoteCount() > 0 {
		return nil, errors.E(op, r.Path, errors.Repo(origin.Path), errors.Git,
			fmt.Errorf("initial notes fetch failed: %s", strings.TrimSpace(res.Stderr)))
	}

	exists, err := runner.RefExists(ctx, r.TrackingRef)
	if err != nil {
		return nil, errors.E(op, r.Path, err)
	}
	if exists {
		if _, err := runner.Run(ctx, "update-ref", gitutil.NotesRef, r.TrackingRef); err != nil {
			return nil, errors.E(op, r.Path, err)
		}
	}
	return r, nil
}

// FetchNotes re-fetches the origin's notes ref into the tracking ref and
// reports the outcome. A non-zero exit lands in the result, not in the
// error.
func (r *Replica) FetchNotes(ctx context.Context) (gitutil.RunResult, error) {
	return r.runner.Exec(ctx, "fetch", remoteName, gitutil.FetchRefspec(remoteName))
}

// MergeNotes merges the tracking ref into the local notes ref with the
// given strategy and reports the outcome. A non-zero exit lands in the
// result, not in the error.
func (r *Replica) MergeNotes(ctx context.Context, strategy string) (gitutil.RunResult, error) {
	return r.runner.Exec(ctx, "notes", "--ref="+gitutil.NotesRefName, "merge", "-s", strategy, r.TrackingRef)
}

// RefExists reports whether ref resolves in the clone.
func (r *Replica) RefExists(ctx context.Context, ref string) (bool, error) {
	return r.runner.RefExists(ctx, ref)
}
