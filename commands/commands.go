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

// Package commands assembles the CLI command set.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mm-zacharydavison/git-ai-bench/internal/cmdgen"
	"github.com/mm-zacharydavison/git-ai-bench/internal/cmdrun"
)

// GetBenchCommands returns the set of commands to be registered on the
// root command. The context carries the printer; v carries the values of
// the global flags and their environment fallbacks.
func GetBenchCommands(ctx context.Context, v *viper.Viper) []*cobra.Command {
	var c []*cobra.Command
	runCmd := cmdrun.NewCommand(ctx, v)
	genCmd := cmdgen.NewCommand(ctx, v)
	c = append(c, runCmd, genCmd)
	return c
}
