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
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

// ArtifactType is the artifact type of pushed bundles.
const ArtifactType = "application/vnd.wfctl.bundle.v1"

// Layer media types by archive suffix.
const (
	MediaTypeBundleGzip = "application/vnd.wfctl.bundle.layer.v1.tar+gzip"
	MediaTypeBundleXZ   = "application/vnd.wfctl.bundle.layer.v1.tar+xz"
)

// PushOptions configures the OCI push operation.
type PushOptions struct {
	// FilePath is the bundle archive to push.
	FilePath string
	// Reference is the target; it must carry a tag.
	Reference *Reference
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Annotations are added to the manifest.
	Annotations map[string]string
}

// PushResult contains the result of a successful OCI push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string `json:"digest" yaml:"digest"`
	// Reference is the full image reference (registry/repository:tag).
	Reference string `json:"reference" yaml:"reference"`
	// Size is the size of the bundle layer in bytes.
	Size int64 `json:"size" yaml:"size"`
}

// MediaTypeFor returns the layer media type for an archive path.
func MediaTypeFor(path string) (string, error) {
	switch {
	case strings.HasSuffix(path, ".tar.gz"):
		return MediaTypeBundleGzip, nil
	case strings.HasSuffix(path, ".tar.xz"):
		return MediaTypeBundleXZ, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("cannot push %q: not a .tar.gz or .tar.xz bundle", path))
	}
}

// PushFile pushes a bundle archive to a registry using ORAS.
func PushFile(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil || opts.Reference.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required to push OCI artifact")
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", stripProtocol(opts.Reference.Registry), opts.Reference.Repository))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	return pushTo(ctx, opts, repo)
}

// pushTo packs the bundle in a file store and copies it to dst.
func pushTo(ctx context.Context, opts PushOptions, dst oras.Target) (*PushResult, error) {
	mediaType, err := MediaTypeFor(opts.FilePath)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(opts.FilePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve bundle path", err)
	}

	fs, err := file.New(filepath.Dir(absPath))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()

	layerDesc, err := fs.Add(ctx, filepath.Base(absPath), mediaType, absPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to add bundle to store", err)
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: opts.Annotations,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to pack manifest", err)
	}

	tag := opts.Reference.Tag
	if err := fs.Tag(ctx, manifestDesc, tag); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to tag manifest in local store", err)
	}

	slog.Info("pushing bundle", "reference", opts.Reference.ImageReference(), "size", layerDesc.Size)

	desc, err := oras.Copy(ctx, fs, tag, dst, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to push artifact to registry", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: opts.Reference.ImageReference(),
		Size:      layerDesc.Size,
	}, nil
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
