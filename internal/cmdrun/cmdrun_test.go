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

package cmdrun_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/mm-zacharydavison/git-ai-bench/internal/bench"
	. "github.com/mm-zacharydavison/git-ai-bench/internal/cmdrun"
	"github.com/mm-zacharydavison/git-ai-bench/internal/testutil"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer/fake"
)

// newViper seeds the keys the root command binds in production.
func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetDefault("git", "")
	v.SetDefault("workdir", t.TempDir())
	v.SetDefault("log-level", "none")
	return v
}

func TestPreRunE(t *testing.T) {
	testCases := map[string]struct {
		args        []string
		flags       map[string]string
		plan        string
		logLevel    string
		errMsg      string
		expConfigs  []bench.Config
		expBatches  []int
		expStrategy string
	}{
		"defaults": {
			expConfigs:  bench.DefaultConfigs(),
			expBatches:  bench.DefaultBatchSizes(),
			expStrategy: bench.DefaultMergeStrategy,
		},
		"a positional total replaces the matrix": {
			args:        []string{"7"},
			expConfigs:  []bench.Config{{Commits: 7, Notes: 7}},
			expBatches:  bench.DefaultBatchSizes(),
			expStrategy: bench.DefaultMergeStrategy,
		},
		"total must be an integer": {
			args:   []string{"lots"},
			errMsg: `TOTAL must be an integer, got "lots"`,
		},
		"total must be positive": {
			args:   []string{"-3"},
			errMsg: "commits must be positive",
		},
		"strategy flag is validated": {
			flags:  map[string]string{"merge-strategy": "octopus"},
			errMsg: `unknown merge strategy "octopus"`,
		},
		"log level is validated": {
			logLevel: "chatty",
			errMsg:   `parsing log level "chatty"`,
		},
		"experiment file fills unset values": {
			plan: `
configs:
  - commits: 5
    notes: 2
batchSizes: [7, 8]
mergeStrategy: union
`,
			expConfigs:  []bench.Config{{Commits: 5, Notes: 2}},
			expBatches:  []int{7, 8},
			expStrategy: "union",
		},
		"explicit flags beat the experiment file": {
			plan: `
configs:
  - commits: 5
    notes: 2
batchSizes: [7, 8]
mergeStrategy: union
`,
			flags: map[string]string{
				"batch-sizes":    "3",
				"merge-strategy": "theirs",
			},
			expConfigs:  []bench.Config{{Commits: 5, Notes: 2}},
			expBatches:  []int{3},
			expStrategy: "theirs",
		},
		"a positional total beats the experiment file": {
			args: []string{"9"},
			plan: `
configs:
  - commits: 5
    notes: 2
`,
			expConfigs:  []bench.Config{{Commits: 9, Notes: 9}},
			expBatches:  bench.DefaultBatchSizes(),
			expStrategy: bench.DefaultMergeStrategy,
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			v := newViper(t)
			if tc.logLevel != "" {
				v.Set("log-level", tc.logLevel)
			}
			r := NewRunner(fake.CtxWithDefaultPrinter(), v)

			if tc.plan != "" {
				path := filepath.Join(t.TempDir(), "experiment.yaml")
				err := os.WriteFile(path, []byte(tc.plan), 0600)
				testutil.AssertNoError(t, err)
				testutil.AssertNoError(t, r.Command.Flags().Set("config", path))
			}
			for name, val := range tc.flags {
				testutil.AssertNoError(t, r.Command.Flags().Set(name, val))
			}

			err := r.Command.PreRunE(r.Command, tc.args)
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
			assert.Equal(t, tc.expConfigs, r.Experiment.Configs)
			assert.Equal(t, tc.expBatches, r.Experiment.BatchSizes)
			assert.Equal(t, tc.expStrategy, r.Experiment.MergeStrategy)
		})
	}
}

func TestPreRunEMissingConfigFile(t *testing.T) {
	r := NewRunner(fake.CtxWithDefaultPrinter(), newViper(t))
	path := filepath.Join(t.TempDir(), "no-such-experiment.yaml")
	testutil.AssertNoError(t, r.Command.Flags().Set("config", path))

	err := r.Command.PreRunE(r.Command, nil)
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	workDir := t.TempDir()
	v := newViper(t)
	v.Set("workdir", workDir)

	r := NewRunner(fake.CtxWithDefaultPrinter(), v)
	r.Command.SetArgs([]string{"2", "--batch-sizes", "1"})

	err := r.Command.Execute()
	testutil.AssertNoError(t, err)

	assert.Equal(t, []bench.Config{{Commits: 2, Notes: 2}}, r.Experiment.Configs)
	assert.Equal(t, []int{1}, r.Experiment.BatchSizes)

	// The workspace was torn down.
	entries, err := os.ReadDir(workDir)
	testutil.AssertNoError(t, err)
	assert.Empty(t, entries)
}
