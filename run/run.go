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

// Package run builds the root command and its global wiring.
package run

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mm-zacharydavison/git-ai-bench/commands"
	"github.com/mm-zacharydavison/git-ai-bench/internal/dlog"
	"github.com/mm-zacharydavison/git-ai-bench/internal/util/cmdutil"
	"github.com/mm-zacharydavison/git-ai-bench/pkg/printer"
)

const (
	cliName = "git-ai-bench"

	// envPrefix namespaces the environment variables the CLI reads,
	// e.g. GIT_AI_BENCH_GIT and GIT_AI_BENCH_WORKDIR.
	envPrefix = "GIT_AI_BENCH"

	cliShort = "Benchmark git notes syncing between repositories"

	cliLong = `
git-ai-bench measures how expensive it is to keep a commit authorship
notes ref in sync as a repository grows. It synthesizes origin
repositories of configurable size, attaches an authorship payload to
each commit under refs/notes/ai, and times a clone fetching and merging
fresh batches of notes from the origin.
`
)

func GetMain(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:          cliName,
		Short:        cliShort,
		Long:         cliShort + "\n" + cliLong,
		SilenceUsage: true,
		// We handle all errors in main after return from cobra so we can
		// adjust the error message coming from libraries
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := cmd.Flags().GetBool("help")
			if err != nil {
				return err
			}
			if h {
				return cmd.Help()
			}
			return cmd.Usage()
		},
	}

	cmd.PersistentFlags().String("git", "",
		"git command to benchmark, e.g. a path to a custom build (default plain git)")
	cmd.PersistentFlags().String("workdir", "",
		"parent directory for scratch workspaces (default the system temp dir)")
	cmd.PersistentFlags().String("log-level", dlog.LogLevelNone,
		"debug log level: none, info or debug")

	// Global flags can also arrive through the environment; explicit
	// flags win.
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
		panic(err)
	}

	// wire the global printer
	pr := printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	// create context with associated printer
	ctx = printer.WithContext(ctx, pr)

	cmd.InitDefaultHelpCmd()
	cmd.AddCommand(commands.GetBenchCommands(ctx, v)...)

	// enable stack traces
	cmd.PersistentFlags().BoolVar(&cmdutil.StackOnError, "stack-trace", false,
		"Print a stack-trace on failure")

	cmd.AddCommand(versionCmd)
	return cmd
}

var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of git-ai-bench",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version)
	},
}
