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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name    string `json:"name" yaml:"name"`
	Value   int    `json:"value" yaml:"value"`
	Skipped string `json:"-" yaml:"-"`
}

type testRows []testConfig

func (r testRows) TableHeader() []string {
	return []string{"NAME", "VALUE"}
}

func (r testRows) TableRows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, c := range r {
		rows = append(rows, []string{c.Name, strings.Repeat("*", c.Value)})
	}
	return rows
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	data := []testConfig{{Name: "test1", Value: 123}, {Name: "test2", Value: 456}}
	require.NoError(t, w.Serialize(context.Background(), data))

	var result []testConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
	assert.Contains(t, buf.String(), "\n  {\n    \"name\"")
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "test", Value: 1}))

	var result testConfig
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "test", result.Name)
	assert.Equal(t, 1, result.Value)
}

func TestWriter_SerializeTable(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		contains []string
		excludes []string
	}{
		{
			name:     "struct uses json names",
			input:    testConfig{Name: "test", Value: 7, Skipped: "hidden"},
			contains: []string{"FIELD", "name", "test", "value", "7"},
			excludes: []string{"hidden", "Skipped"},
		},
		{
			name:     "nested slice",
			input:    map[string]any{"items": []int{1, 2}},
			contains: []string{"items.[0]", "items.[1]"},
		},
		{
			name:     "scalar",
			input:    42,
			contains: []string{"value", "42"},
		},
		{
			name:     "time is printed as string",
			input:    struct{ At time.Time }{At: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
			contains: []string{"At", "2025-01-02 03:04:05"},
		},
		{
			name:     "tabular rows",
			input:    testRows{{Name: "a", Value: 1}, {Name: "b", Value: 3}},
			contains: []string{"NAME", "VALUE", "a", "*", "b", "***"},
			excludes: []string{"FIELD"},
		},
		{
			name:     "empty",
			input:    map[string]any{},
			contains: []string{"<empty>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), tt.input))
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	require.NoError(t, w.Serialize(context.Background(), map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	assert.Error(t, NewWriter(FormatJSON, &buf).Serialize(ctx, 1))
	assert.Empty(t, buf.String())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	w := NewFileWriterOrStdout(FormatYAML, path)
	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "file"}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: file")

	assert.Equal(t, os.Stdout, NewFileWriterOrStdout(FormatJSON, "  ").output)
	assert.Equal(t, os.Stdout, NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "x.json")).output)
}

func TestFormat_IsUnknown(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("csv").IsUnknown())
}
