// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dump

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/wfctl/pkg/api"
)

// progress prints human readable status lines, separate from the log.
type progress struct {
	out   io.Writer
	title cases.Caser
}

func newProgress(out io.Writer, silent bool) *progress {
	if silent || out == nil {
		out = io.Discard
	}
	return &progress{
		out:   out,
		title: cases.Title(language.English),
	}
}

func (p *progress) stage(s Stage) {
	fmt.Fprintf(p.out, "- %s\n", p.title.String(string(s)))
}

func (p *progress) task(i, total int, t api.Task) {
	fmt.Fprintf(p.out, "  [%d/%d] adding logs for task %d (%s)\n", i, total, t.TaskID, t.Name)
}

