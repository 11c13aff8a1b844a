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

// Package notegen produces the synthetic authorship payloads that get
// attached to commits as git notes. Payloads are deterministic: the same
// index and commit always render to the same bytes, so repeated runs
// produce identical repositories.
package notegen

import (
	"encoding/json"
	"fmt"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
)

// Payload is the authorship document stored in a single note.
type Payload struct {
	Metadata   Metadata   `json:"metadata"`
	Session    Session    `json:"session"`
	Authorship Authorship `json:"authorship"`
}

type Metadata struct {
	SchemaVersion string `json:"schema_version"`
	Commit        string `json:"commit"`
	Timestamp     string `json:"timestamp"`
}

type Session struct {
	ID          string       `json:"id"`
	Checkpoints []Checkpoint `json:"checkpoints"`
}

type Checkpoint struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type Authorship struct {
	AIPercentage    float64 `json:"ai_percentage"`
	HumanPercentage float64 `json:"human_percentage"`
}

const (
	schemaVersion = "3.0"

	// Fixed timestamps instead of clock reads keep payloads reproducible.
	promptTimestamp   = "2025-10-08T12:00:00Z"
	responseTimestamp = "2025-10-08T12:01:00Z"
)

// New returns the payload for the commit at position index.
func New(index int, commit string) Payload {
	return Payload{
		Metadata: Metadata{
			SchemaVersion: schemaVersion,
			Commit:        commit,
			Timestamp:     promptTimestamp,
		},
		Session: Session{
			ID: fmt.Sprintf("session_%d", index),
			Checkpoints: []Checkpoint{
				{
					Type:      "user_prompt",
					Content:   fmt.Sprintf("Implement feature %d", index),
					Timestamp: promptTimestamp,
				},
				{
					Type:      "ai_response",
					Content:   fmt.Sprintf("Here's the implementation for feature %d...", index),
					Timestamp: responseTimestamp,
				},
			},
		},
		Authorship: Authorship{
			AIPercentage:    0.75,
			HumanPercentage: 0.25,
		},
	}
}

// Render encodes the payload the way it is stored under the notes ref:
// two-space indented JSON.
func Render(index int, commit string) ([]byte, error) {
	const op errors.Op = "notegen.Render"
	b, err := json.MarshalIndent(New(index, commit), "", "  ")
	if err != nil {
		return nil, errors.E(op, errors.Internal, err)
	}
	return b, nil
}
