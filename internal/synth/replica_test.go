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

package synth_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
	. "github.com/mm-zacharydavison/git-ai-bench/internal/synth"
	"github.com/mm-zacharydavison/git-ai-bench/internal/testutil"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer/fake"
)

func TestCloneForNotes(t *testing.T) {
	ctx := fake.CtxWithDefaultPrinter()
	dir := t.TempDir()

	origin, err := CreateOrigin(ctx, filepath.Join(dir, "origin"), 3, 3, Options{})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	replica, err := CloneForNotes(ctx, origin, filepath.Join(dir, "clone"), Options{})
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, filepath.Join(dir, "clone"), replica.Path.String())
	assert.Equal(t, gitutil.TrackingRef("origin"), replica.TrackingRef)

	clone := replica.Path.String()
	assert.Equal(t, 3, testutil.CommitCount(t, ctx, clone))
	assert.Equal(t, 3, testutil.NoteCount(t, ctx, clone))

	for _, ref := range []string{gitutil.NotesRef, replica.TrackingRef} {
		exists, err := replica.RefExists(ctx, ref)
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		assert.True(t, exists, ref)
	}

	// The local notes ref is bootstrapped straight from the tracking ref.
	assert.Equal(t,
		testutil.ResolveRef(t, ctx, clone, replica.TrackingRef),
		testutil.ResolveRef(t, ctx, clone, gitutil.NotesRef))
}

func TestCloneForNotesExistingDestination(t *testing.T) {
	ctx := fake.CtxWithDefaultPrinter()
	dir := t.TempDir()

	origin, err := CreateOrigin(ctx, filepath.Join(dir, "origin"), 1, 1, Options{})
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	dest := filepath.Join(dir, "clone")
	if !assert.NoError(t, os.MkdirAll(dest, 0700)) {
		t.FailNow()
	}

	_, err = CloneForNotes(ctx, origin, dest, Options{})
	if !assert.Error(t, err) {
		t.FailNow()
	}

	var destErr *DestinationExistsError
	if !assert.True(t, errors.As(err, &destErr)) {
		t.FailNow()
	}
	assert.Equal(t, dest, destErr.Path.String())
}

func TestCloneForNotesNoteLessOrigin(t *testing.T) {
	ctx := fake.CtxWithDefaultPrinter()
	dir := t.TempDir()

	origin, err := CreateOrigin(ctx, filepath.Join(dir, "origin"), 2, 0, Options{})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	replica, err := CloneForNotes(ctx, origin, filepath.Join(dir, "clone"), Options{})
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	// Nothing to fetch yet, so neither notes ref exists in the clone.
	for _, ref := range []string{gitutil.NotesRef, replica.TrackingRef} {
		exists, err := replica.RefExists(ctx, ref)
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		assert.False(t, exists, ref)
	}

	// Once the origin gains notes, a fetch/merge cycle picks them up. The
	// merge fast-forwards the still unborn local ref.
	err = origin.AppendNotes(ctx, 1)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	res, err := replica.FetchNotes(ctx)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, 0, res.ExitCode)

	res, err = replica.MergeNotes(ctx, "ours")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, 0, res.ExitCode)

	assert.Equal(t, 1, testutil.NoteCount(t, ctx, replica.Path.String()))
}
