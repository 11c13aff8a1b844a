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

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/synth"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&synthErrorResolver{})
}

// synthErrorResolver produces messages for errors surfaced while building
// benchmark repositories.
type synthErrorResolver struct{}

func (*synthErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var destExistsErr *synth.DestinationExistsError
	if errors.As(err, &destExistsErr) {
		msg := fmt.Sprintf("Error: Destination directory %q already exists. "+
			"Repositories are always built into a fresh directory; remove it or pick another path.",
			destExistsErr.Path.String())
		return ResolvedResult{Message: msg}, true
	}
	return ResolvedResult{}, false
}
