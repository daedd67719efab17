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

package oci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    *Reference
		wantErr bool
	}{
		{
			name:   "with tag",
			target: "oci://ghcr.io/acme/diagnostics:run-4Bi5",
			want:   &Reference{Registry: "ghcr.io", Repository: "acme/diagnostics", Tag: "run-4Bi5"},
		},
		{
			name:   "without tag",
			target: "oci://localhost:5000/bundles",
			want:   &Reference{Registry: "localhost:5000", Repository: "bundles"},
		},
		{
			name:   "nested repository",
			target: "oci://registry.example.com:5000/org/team/wf:v1",
			want:   &Reference{Registry: "registry.example.com:5000", Repository: "org/team/wf", Tag: "v1"},
		},
		{name: "missing scheme", target: "ghcr.io/acme/diagnostics:v1", wantErr: true},
		{name: "uppercase", target: "oci://ghcr.io/ACME/Diag:v1", wantErr: true},
		{name: "digest", target: "oci://ghcr.io/acme/diag@sha256:" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", wantErr: true},
		{name: "empty", target: "oci://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReference(tt.target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReference_Strings(t *testing.T) {
	ref := &Reference{Registry: "ghcr.io", Repository: "acme/diag"}
	assert.Equal(t, "ghcr.io/acme/diag", ref.ImageReference())
	assert.Equal(t, "oci://ghcr.io/acme/diag", ref.String())

	tagged := ref.WithTag("v2")
	assert.Equal(t, "oci://ghcr.io/acme/diag:v2", tagged.String())
	assert.Empty(t, ref.Tag, "WithTag does not modify the receiver")
}

func TestValidateRegistryReference(t *testing.T) {
	tests := []struct {
		name       string
		registry   string
		repository string
		wantErr    bool
	}{
		{"valid ghcr.io", "ghcr.io", "acme/diag", false},
		{"localhost with port", "localhost:5000", "test/repo", false},
		{"https prefix", "https://ghcr.io", "acme/diag", false},
		{"spaces", "invalid registry", "test/repo", true},
		{"uppercase", "ghcr.io", "ACME/Diag", true},
		{"special chars", "ghcr.io", "test/repo@latest", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistryReference(tt.registry, tt.repository)
			assert.Equal(t, tt.wantErr, err != nil, "error = %v", err)
		})
	}
}
