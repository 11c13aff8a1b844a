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

package main

import (
	"context"
	"fmt"
	"os"

	goerrors "github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/mm-zacharydavison/git-ai-bench/internal/errors"
	"github.com/mm-zacharydavison/git-ai-bench/internal/errors/resolver"
	"github.com/mm-zacharydavison/git-ai-bench/internal/util/cmdutil"
	"github.com/mm-zacharydavison/git-ai-bench/run"
)

func main() {
	// All the work happens behind runMain so deferred cleanup is not cut
	// off by os.Exit.
	os.Exit(runMain())
}

func runMain() int {
	ctx := context.Background()
	cmd := run.GetMain(ctx)
	if err := cmd.Execute(); err != nil {
		return handleErr(cmd, err)
	}
	return 0
}

// handleErr prints an error message fit for the user and picks the exit
// code. Registered resolvers get the first shot at the message; the raw
// error prints only when nothing recognizes it.
func handleErr(cmd *cobra.Command, err error) int {
	if cmdutil.PrintErrorStacktrace() {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			fmt.Fprint(cmd.ErrOrStderr(), stackErr.ErrorStack())
		}
	}
	if rr, resolved := resolver.ResolveError(err); resolved {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", rr.Message)
		return rr.ExitCode
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return 1
}
