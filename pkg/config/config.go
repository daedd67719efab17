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
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/wfctl/pkg/defaults"
	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

// FileName is the profile name searched for in the home and working directories.
const FileName = ".wfctl.yaml"

// DefaultURL is the platform API endpoint used when nothing else is configured.
const DefaultURL = "https://api.cloud.seqera.io"

// Profile models the YAML profile file.
type Profile struct {
	URL         string  `yaml:"url,omitempty"`
	AccessToken string  `yaml:"access_token,omitempty"`
	Workspace   string  `yaml:"workspace,omitempty"`
	RateLimit   float64 `yaml:"rate_limit,omitempty"`
	Insecure    bool    `yaml:"insecure,omitempty"`

	// Path is the file the profile was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in profile.
func Default() *Profile {
	return &Profile{
		URL:       DefaultURL,
		RateLimit: defaults.APIRateLimit,
	}
}

// Load reads the profile at path. An empty path triggers discovery in the
// home directory and then the working directory; a missing discovered file
// is not an error and yields Default().
func Load(path string) (*Profile, error) {
	if strings.TrimSpace(path) != "" {
		return readFile(path)
	}

	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, FileName))
	}
	candidates = append(candidates, FileName)

	for _, c := range candidates {
		p, err := readFile(c)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return Default(), nil
}

func readFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := apperrors.ErrCodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = apperrors.ErrCodeNotFound
		}
		return nil, apperrors.WrapWithContext(code, "failed to read config", err,
			map[string]any{"path": path})
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "failed to parse config", err,
			map[string]any{"path": path})
	}
	if err := p.Validate(); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid config", err,
			map[string]any{"path": path})
	}
	p.Path = path
	return p, nil
}

// Validate checks the profile for values that can never work.
func (p *Profile) Validate() error {
	if p.URL == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "url cannot be empty")
	}
	if !strings.HasPrefix(p.URL, "http://") && !strings.HasPrefix(p.URL, "https://") {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("url must start with http:// or https://, got %q", p.URL),
			map[string]any{"url": p.URL})
	}
	if p.RateLimit < 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("rate_limit cannot be negative, got %v", p.RateLimit),
			map[string]any{"rate_limit": p.RateLimit})
	}
	return nil
}
