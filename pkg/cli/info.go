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

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/wfctl/pkg/api"
	"github.com/NVIDIA/wfctl/pkg/serializer"
)

// infoOutput is the serialized result of the info command.
type infoOutput struct {
	ClientVersion string `json:"clientVersion" yaml:"clientVersion"`
	URL           string `json:"url" yaml:"url"`
	Workspace     string `json:"workspace" yaml:"workspace"`
	Profile       string `json:"profile,omitempty" yaml:"profile,omitempty"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	ServerVersion string `json:"serverVersion" yaml:"serverVersion"`
	APIVersion    string `json:"apiVersion" yaml:"apiVersion"`
	MinAPIVersion string `json:"minApiVersion" yaml:"minApiVersion"`
	Compatible    bool   `json:"compatible" yaml:"compatible"`
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show platform version and connection settings",
		Flags: []cli.Flag{
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			svc, err := s.client.DescribeService(ctx)
			if err != nil {
				return err
			}

			out := infoOutput{
				ClientVersion: version,
				URL:           s.client.BaseURL(),
				Workspace:     s.workspace.String(),
				Profile:       s.profile.Path,
				Authenticated: s.profile.AccessToken != "",
				MinAPIVersion: api.MinAPIVersion,
			}
			if svc != nil {
				out.ServerVersion = svc.Version
				out.APIVersion = svc.APIVersion
			}
			if cerr := api.CheckCompatibility(svc); cerr != nil {
				slog.Warn("platform API may not be compatible", "error", cerr)
			} else {
				out.Compatible = true
			}

			return serializer.NewWriter(outFormat, stdout(cmd)).Serialize(ctx, out)
		},
	}
}
