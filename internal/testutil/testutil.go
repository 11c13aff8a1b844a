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

// Package testutil holds git helpers shared by package tests.
package testutil

import (
	"context"
	"strconv"
	"strings"
	"testing"

	assertnow "gotest.tools/assert"

	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
)

// AssertNoError fails the test immediately on err.
var AssertNoError = assertnow.NilError

// Runner returns a git runner rooted at dir.
func Runner(t *testing.T, dir string) *gitutil.Runner {
	t.Helper()
	runner, err := gitutil.NewRunner("", dir)
	AssertNoError(t, err)
	return runner
}

// CommitCount returns the number of commits reachable from HEAD.
func CommitCount(t *testing.T, ctx context.Context, dir string) int {
	t.Helper()
	rr, err := Runner(t, dir).Run(ctx, "rev-list", "--count", "HEAD")
	AssertNoError(t, err)
	n, err := strconv.Atoi(strings.TrimSpace(rr.Stdout))
	AssertNoError(t, err)
	return n
}

// NoteCount returns the number of notes on the authorship ref, zero when
// the ref does not exist.
func NoteCount(t *testing.T, ctx context.Context, dir string) int {
	t.Helper()
	res, err := Runner(t, dir).Exec(ctx, "notes", "--ref="+gitutil.NotesRefName, "list")
	AssertNoError(t, err)
	if res.ExitCode != 0 {
		return 0
	}
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		return 0
	}
	return len(strings.Split(out, "\n"))
}

// NoteFor returns the note payload attached to hash.
func NoteFor(t *testing.T, ctx context.Context, dir, hash string) string {
	t.Helper()
	rr, err := Runner(t, dir).Run(ctx, "notes", "--ref="+gitutil.NotesRefName, "show", hash)
	AssertNoError(t, err)
	return rr.Stdout
}

// ResolveRef returns the hash ref points at.
func ResolveRef(t *testing.T, ctx context.Context, dir, ref string) string {
	t.Helper()
	rr, err := Runner(t, dir).Run(ctx, "rev-parse", ref)
	AssertNoError(t, err)
	return strings.TrimSpace(rr.Stdout)
}
