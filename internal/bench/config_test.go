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
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/mm-zacharydavison/git-ai-bench/internal/bench"
)

func TestNewConfig(t *testing.T) {
	testCases := map[string]struct {
		commits int
		notes   int
		errMsg  string
	}{
		"valid": {
			commits: 10,
			notes:   5,
		},
		"all commits annotated": {
			commits: 10,
			notes:   10,
		},
		"zero notes is allowed": {
			commits: 10,
			notes:   0,
		},
		"zero commits": {
			commits: 0,
			notes:   0,
			errMsg:  "commits must be positive",
		},
		"negative commits": {
			commits: -3,
			notes:   0,
			errMsg:  "commits must be positive",
		},
		"negative notes": {
			commits: 10,
			notes:   -1,
			errMsg:  "notes must be non-negative",
		},
		"more notes than commits": {
			commits: 5,
			notes:   6,
			errMsg:  "notes (6) cannot exceed commits (5)",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			cfg, err := NewConfig(tc.commits, tc.notes)
			if tc.errMsg != "" {
				if !assert.Error(t, err) {
					t.FailNow()
				}
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}
			if !assert.NoError(t, err) {
				t.FailNow()
			}
			assert.Equal(t, tc.commits, cfg.Commits)
			assert.Equal(t, tc.notes, cfg.Notes)
		})
	}
}

func TestDefaultConfigs(t *testing.T) {
	assert.Equal(t, []Config{
		{Commits: 1000, Notes: 1000},
		{Commits: 10000, Notes: 10000},
		{Commits: 50000, Notes: 50000},
		{Commits: 100000, Notes: 100000},
	}, DefaultConfigs())
}

func TestDefaultBatchSizes(t *testing.T) {
	assert.Equal(t, []int{10, 100, 500, 1000}, DefaultBatchSizes())
}

func TestNewExperiment(t *testing.T) {
	validConfigs := []Config{{Commits: 100, Notes: 100}}

	testCases := map[string]struct {
		configs    []Config
		batchSizes []int
		strategy   string
		errMsg     string
	}{
		"defaults are valid": {
			configs:    DefaultConfigs(),
			batchSizes: DefaultBatchSizes(),
			strategy:   DefaultMergeStrategy,
		},
		"every git strategy is accepted": {
			configs:    validConfigs,
			batchSizes: []int{1},
			strategy:   "cat_sort_uniq",
		},
		"no configs": {
			batchSizes: DefaultBatchSizes(),
			strategy:   DefaultMergeStrategy,
			errMsg:     "at least one configuration is required",
		},
		"no batch sizes": {
			configs:  validConfigs,
			strategy: DefaultMergeStrategy,
			errMsg:   "at least one batch size is required",
		},
		"zero batch size": {
			configs:    validConfigs,
			batchSizes: []int{10, 0},
			strategy:   DefaultMergeStrategy,
			errMsg:     "batch sizes must be positive, got 0",
		},
		"hand-built config is still validated": {
			configs:    []Config{{Commits: -1, Notes: 0}},
			batchSizes: DefaultBatchSizes(),
			strategy:   DefaultMergeStrategy,
			errMsg:     "commits must be positive",
		},
		"unknown merge strategy": {
			configs:    validConfigs,
			batchSizes: []int{1},
			strategy:   "octopus",
			errMsg:     `unknown merge strategy "octopus", expected one of: cat_sort_uniq, manual, ours, theirs, union`,
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			exp, err := NewExperiment(tc.configs, tc.batchSizes, tc.strategy)
			if tc.errMsg != "" {
				if !assert.Error(t, err) {
					t.FailNow()
				}
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}
			if !assert.NoError(t, err) {
				t.FailNow()
			}
			assert.Equal(t, tc.configs, exp.Configs)
			assert.Equal(t, tc.batchSizes, exp.BatchSizes)
			assert.Equal(t, tc.strategy, exp.MergeStrategy)
		})
	}
}

func TestNewExperimentOptions(t *testing.T) {
	exp, err := NewExperiment(
		[]Config{{Commits: 10, Notes: 10}},
		[]int{1},
		DefaultMergeStrategy,
		WithWorkDir("/var/tmp/bench"),
		WithKeep(true),
		WithGitCommand("/opt/git/bin/git"),
		WithVerbose(true),
	)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, "/var/tmp/bench", exp.WorkDir)
	assert.True(t, exp.Keep)
	assert.Equal(t, "/opt/git/bin/git", exp.GitCommand)
	assert.True(t, exp.Verbose)
}
