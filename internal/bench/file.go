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

package bench

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"gopkg.in/yaml.v3"
)

// Plan is the experiment description read from a YAML file. Omitted
// fields are zero; the caller falls back to defaults for those.
type Plan struct {
	Configs       []Config
	BatchSizes    []int
	MergeStrategy string
}

// planFile mirrors the YAML schema.
type planFile struct {
	Configs []struct {
		Commits int `yaml:"commits"`
		Notes   int `yaml:"notes"`
	} `yaml:"configs"`
	BatchSizes    []int  `yaml:"batchSizes"`
	MergeStrategy string `yaml:"mergeStrategy"`
}

// LoadExperimentFile reads a YAML experiment description. Unknown keys
// are rejected so a typo cannot silently benchmark the wrong thing, and
// configurations pass through the same validation as flag input.
func LoadExperimentFile(path string) (*Plan, error) {
	const op errors.Op = "bench.LoadExperimentFile"
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}

	var f planFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	// An empty file is a valid plan: everything falls back to defaults.
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.E(op, errors.InvalidParam,
			fmt.Errorf("parsing %s: %w", path, err))
	}

	plan := &Plan{
		BatchSizes:    f.BatchSizes,
		MergeStrategy: f.MergeStrategy,
	}
	for _, c := range f.Configs {
		cfg, err := NewConfig(c.Commits, c.Notes)
		if err != nil {
			return nil, errors.E(op, err)
		}
		plan.Configs = append(plan.Configs, cfg)
	}
	return plan, nil
}
