/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns an unrecovered panic into a logged error, a crash
// report on disk and a non-zero exit.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"gopkg.in/yaml.v3"

	"gofloorplan/internal/domain"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/version"
)

// State exposes the live document so a crash report can include it.
type State interface {
	Document() domain.Document
}

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// reportDir is where crash reports are written.
var reportDir = os.TempDir

// Recover captures a panic, logs an error with stacktrace, writes a crash
// report (including a YAML dump of the document when state is non-nil) and
// exits with code 2.
//
// Usage: defer crash.Recover(session)
func Recover(state State) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(state, r, stack)
	if err != nil {
		l.Error("crash report not written", slog.Any("err", err), slog.String("path", reportPath))
	}
	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

func writeReport(state State, panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405.000")
	path := filepath.Join(reportDir(), fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "gofloorplan crash report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if state != nil {
		doc := state.Document()
		st := doc.Stats()
		fmt.Fprintf(&buf, "Entities: chains=%d walls=%d rooms=%d openings=%d polylines=%d texts=%d dimensions=%d\n",
			st.Chains, st.Walls, st.Rooms, st.Openings, st.Polylines, st.Texts, st.Dimensions)
		if dump, err := yaml.Marshal(doc); err == nil {
			fmt.Fprintf(&buf, "\nDocument:\n%s", dump)
		}
	}
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", stack)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}
