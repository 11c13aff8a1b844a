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

// Package cmdutil holds helpers shared by the command layer.
package cmdutil

import (
	"os"

	goerrors "github.com/go-errors/errors"
)

const (
	// StackTraceOnErrors is the environment variable that enables stack
	// traces on failure without passing the flag.
	StackTraceOnErrors = "COBRA_STACK_TRACE_ON_ERRORS"
	trueString         = "true"
)

// StackOnError if true, will print a stack trace on failure.
var StackOnError bool

// PrintErrorStacktrace reports whether failures should carry a stack
// trace.
func PrintErrorStacktrace() bool {
	e := os.Getenv(StackTraceOnErrors)
	if StackOnError || e == trueString || e == "1" {
		return true
	}
	return false
}

// WrapStack captures the call stack at the command boundary when stack
// traces are requested. The wrapped error keeps its chain, so resolvers
// and errors.As still see through it.
func WrapStack(err error) error {
	if err == nil || !PrintErrorStacktrace() {
		return err
	}
	return goerrors.Wrap(err, 1)
}
