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

package gitutil

import (
	"context"
	"strings"
)

// NotesRef is the notes namespace the harness operates on.
const NotesRef = "refs/notes/ai"

// NotesRefName is the short name of the notes namespace, as passed to
// `git notes --ref`.
const NotesRefName = "ai"

// trackingRefPrefix is where fetched copies of remote notes land.
const trackingRefPrefix = "refs/notes/ai-remote/"

// TrackingRef returns the remote-tracking ref holding the fetched copy of
// the given remote's notes.
func TrackingRef(remote string) string {
	return trackingRefPrefix + sanitizeRemoteName(remote)
}

// FetchRefspec returns the refspec that forces the remote notes ref into
// its tracking ref.
func FetchRefspec(remote string) string {
	return "+" + NotesRef + ":" + TrackingRef(remote)
}

// sanitizeRemoteName keeps remote names safe to embed in a ref path.
func sanitizeRemoteName(remote string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, remote)
}

// RefExists reports whether ref resolves in the repository.
func (r *Runner) RefExists(ctx context.Context, ref string) (bool, error) {
	res, err := r.Exec(ctx, "show-ref", "--verify", "--quiet", ref)
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}
