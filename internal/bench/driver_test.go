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

package bench_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/mm-zacharydavison/git-ai-bench/internal/bench"
	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
	"github.com/mm-zacharydavison/git-ai-bench/internal/synth"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer/fake"
)

// buildPair synthesizes a small origin/clone pair for driver tests.
func buildPair(t *testing.T, commits, notes int) (*synth.Origin, *synth.Replica) {
	t.Helper()
	ctx := fake.CtxWithDefaultPrinter()
	dir := t.TempDir()

	origin, err := synth.CreateOrigin(ctx, filepath.Join(dir, "origin"), commits, notes, synth.Options{})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	replica, err := synth.CloneForNotes(ctx, origin, filepath.Join(dir, "clone"), synth.Options{})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return origin, replica
}

func TestDriverRound(t *testing.T) {
	ctx := fake.CtxWithDefaultPrinter()
	origin, replica := buildPair(t, 4, 4)

	d := NewDriver(origin, replica, Config{Commits: 4, Notes: 4}, DefaultMergeStrategy, nil)

	round, err := d.Round(ctx, 2)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, 4, round.TotalNotes)
	assert.Equal(t, 2, round.NewNotes)
	assert.False(t, round.Failed())
	assert.Equal(t, 0, round.Fetch.ExitCode)
	assert.Equal(t, 0, round.Merge.ExitCode)
	assert.Greater(t, round.Fetch.Duration, time.Duration(0))
	assert.Greater(t, round.Merge.Duration, time.Duration(0))
	assert.Equal(t, round.Fetch.Duration+round.Merge.Duration, round.Total())

	// The batch landed on the origin.
	assert.Equal(t, 6, origin.CommitCount())
	assert.Equal(t, 6, origin.NoteCount())

	// The replica ended the round with a merged notes ref.
	exists, err := replica.RefExists(ctx, gitutil.NotesRef)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.True(t, exists)
}

func TestDriverRoundMeasuredFailureIsData(t *testing.T) {
	ctx := fake.CtxWithDefaultPrinter()
	origin, replica := buildPair(t, 2, 2)

	// A strategy git does not know. NewExperiment would reject it, but the
	// driver passes it straight through, so the merge command itself fails.
	// The failure must land in the result instead of aborting the round.
	d := NewDriver(origin, replica, Config{Commits: 2, Notes: 2}, "bogus", nil)

	round, err := d.Round(ctx, 1)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.False(t, round.Fetch.Failed)
	assert.True(t, round.Merge.Failed)
	assert.True(t, round.Failed())
	assert.NotZero(t, round.Merge.ExitCode)
	assert.NotEmpty(t, round.Merge.Stderr)
}
