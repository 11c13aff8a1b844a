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
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
)

// MinGitVersion is the oldest git release supported. Repository synthesis
// relies on `git init -b`, which shipped in 2.28.
const MinGitVersion = "2.28.0"

var (
	minGitVersion = semver.MustParse(MinGitVersion)
	gitVersionRe  = regexp.MustCompile(`git version (\d+\.\d+(?:\.\d+)?)`)
)

// Preflight checks that gitCommand resolves to a usable git binary of at
// least MinGitVersion and returns the detected version.
func Preflight(ctx context.Context, gitCommand string) (string, error) {
	const op errors.Op = "gitutil.Preflight"
	r, err := NewRunner(gitCommand, "")
	if err != nil {
		return "", errors.E(op, err)
	}
	rr, err := r.Run(ctx, "version")
	if err != nil {
		return "", errors.E(op, err)
	}
	m := gitVersionRe.FindStringSubmatch(rr.Stdout)
	if len(m) < 2 {
		return "", errors.E(op, errors.Git,
			fmt.Errorf("unable to parse git version from %q", strings.TrimSpace(rr.Stdout)))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return "", errors.E(op, errors.Git,
			fmt.Errorf("unable to parse git version %q: %w", m[1], err))
	}
	if v.LessThan(minGitVersion) {
		return "", errors.E(op, errors.Git,
			fmt.Errorf("git %s is older than the minimum supported %s", v, MinGitVersion))
	}
	return v.String(), nil
}
