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

package resolver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/gitutil"
	"github.com/mm-zacharydavison/git-ai-bench/internal/synth"
	"github.com/mm-zacharydavison/git-ai-bench/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestGitExecErrorResolver(t *testing.T) {
	testCases := map[string]struct {
		err      error
		expected string
	}{
		"missing executable": {
			err: &gitutil.GitExecError{
				Type: gitutil.GitExecutableNotFound,
				Err:  fmt.Errorf("exec: not found"),
			},
			expected: "Error: No git executable found. git-ai-bench requires git to be installed and available in the path.",
		},
		"unknown ref": {
			err: &gitutil.GitExecError{
				Type: gitutil.UnknownReference,
				Err:  fmt.Errorf("exit status 128"),
				Repo: "/tmp/bench/origin",
				Ref:  "refs/notes/ai",
			},
			expected: `Error: Unknown ref "refs/notes/ai". Please verify that the reference exists in repo "/tmp/bench/origin".`,
		},
		"generic failure includes command and details": {
			err: &gitutil.GitExecError{
				Type:    gitutil.Unknown,
				Err:     fmt.Errorf("exit status 1"),
				Command: "fetch",
				Args:    []string{"origin", "+refs/notes/ai:refs/notes/ai-remote/origin"},
				StdErr:  "fatal: bad object",
			},
			expected: `
Error: Failed to execute git command "git fetch origin +refs/notes/ai:refs/notes/ai-remote/origin"

Details:
fatal: bad object
`,
		},
		"wrapped in the internal error chain": {
			err: errors.E(errors.Op("synth.CreateOrigin"), errors.Git, &gitutil.GitExecError{
				Type: gitutil.GitExecutableNotFound,
				Err:  fmt.Errorf("exec: not found"),
			}),
			expected: "Error: No git executable found. git-ai-bench requires git to be installed and available in the path.",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			res, ok := (&gitExecErrorResolver{}).Resolve(tc.err)
			if !ok {
				t.Error("expected error to be resolved, but it wasn't")
			}
			assert.Equal(t, strings.TrimSpace(tc.expected), strings.TrimSpace(res.Message))
		})
	}
}

func TestSynthErrorResolver(t *testing.T) {
	err := errors.E(errors.Op("synth.CloneForNotes"), errors.Exist,
		&synth.DestinationExistsError{Path: types.UniquePath("/tmp/bench/clone")})

	res, ok := (&synthErrorResolver{}).Resolve(err)
	if !ok {
		t.Error("expected error to be resolved, but it wasn't")
	}
	assert.Contains(t, res.Message, `"/tmp/bench/clone" already exists`)
}

func TestSynthErrorResolver_otherErrorsPassThrough(t *testing.T) {
	_, ok := (&synthErrorResolver{}).Resolve(fmt.Errorf("some other error"))
	assert.False(t, ok)
}
