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

package archive

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

// Compression identifies the codec wrapped around the tar stream.
type Compression string

const (
	// Gzip compresses the archive with gzip.
	Gzip Compression = "gzip"
	// XZ compresses the archive with xz.
	XZ Compression = "xz"
)

const (
	// SuffixGzip is the output suffix selecting gzip.
	SuffixGzip = ".tar.gz"
	// SuffixXZ is the output suffix selecting xz.
	SuffixXZ = ".tar.xz"
)

// Suffix returns the file suffix matching the compression.
func (c Compression) Suffix() string {
	switch c {
	case Gzip:
		return SuffixGzip
	case XZ:
		return SuffixXZ
	default:
		return ""
	}
}

// CompressionFor derives the compression from the output path suffix.
// The check is purely lexical and performs no I/O.
func CompressionFor(path string) (Compression, error) {
	switch {
	case strings.HasSuffix(path, SuffixGzip) && len(path) > len(SuffixGzip):
		return Gzip, nil
	case strings.HasSuffix(path, SuffixXZ) && len(path) > len(SuffixXZ):
		return XZ, nil
	default:
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported output file %q: expected suffix %s or %s", path, SuffixGzip, SuffixXZ),
			map[string]any{"path": path})
	}
}

// newCompressor wraps w with the codec.
func (c Compression) newCompressor(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		return gzip.NewWriter(w), nil
	case XZ:
		zw, err := xz.NewWriter(w)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create xz writer", err)
		}
		return zw, nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported compression %q", c))
	}
}
