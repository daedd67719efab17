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
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/wfctl/pkg/api"
	"github.com/NVIDIA/wfctl/pkg/config"
	"github.com/NVIDIA/wfctl/pkg/defaults"
	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
	"github.com/NVIDIA/wfctl/pkg/logging"
	"github.com/NVIDIA/wfctl/pkg/serializer"
)

const (
	name           = "wfctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (%v)", serializer.SupportedFormats()),
		Value:   string(serializer.FormatTable),
	}
}

// Execute runs the root command with the process arguments.
// This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Workflow platform command-line client",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Description: `wfctl talks to a workflow execution platform.

Use "wfctl runs dump" to collect everything needed to troubleshoot a run
into a single compressed bundle.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Platform API endpoint",
				Sources: cli.EnvVars("WFCTL_URL"),
			},
			&cli.StringFlag{
				Name:    "access-token",
				Usage:   "Platform access token",
				Sources: cli.EnvVars("WFCTL_ACCESS_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "workspace",
				Aliases: []string{"w"},
				Usage:   "Workspace as ORG_ID/WORKSPACE_ID or WORKSPACE_ID (default: personal workspace)",
				Sources: cli.EnvVars("WFCTL_WORKSPACE"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: fmt.Sprintf("Profile file (default is $HOME/%s)", config.FileName),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
				Value:   "info",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Maximum API requests per second, 0 disables limiting",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Skip TLS certificate verification",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			runsCmd(),
			infoCmd(),
			versionCmd(),
		},
	}
}

// versionOutput is the serialized result of the version command.
type versionOutput struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show client version information",
		Flags: []cli.Flag{
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			out := versionOutput{Version: version, Commit: commit, Date: date}
			return serializer.NewWriter(outFormat, stdout(cmd)).Serialize(ctx, out)
		},
	}
}

// session holds the settings resolved from profile, environment and flags.
type session struct {
	profile   *config.Profile
	workspace api.Workspace
	client    *api.Client
}

// newSession loads the profile and applies explicitly set flags on top.
func newSession(cmd *cli.Command) (*session, error) {
	profile, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("url") {
		profile.URL = cmd.String("url")
	}
	if cmd.IsSet("access-token") {
		profile.AccessToken = cmd.String("access-token")
	}
	if cmd.IsSet("workspace") {
		profile.Workspace = cmd.String("workspace")
	}
	if cmd.IsSet("rate-limit") {
		profile.RateLimit = cmd.Float("rate-limit")
	}
	if cmd.IsSet("insecure") {
		profile.Insecure = cmd.Bool("insecure")
	}
	if err := profile.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid settings", err)
	}

	ws, err := api.ParseWorkspace(profile.Workspace)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(profile.URL,
		api.WithAccessToken(profile.AccessToken),
		api.WithUserAgent(name+"/"+version),
		api.WithRateLimit(profile.RateLimit, defaults.APIRateLimitBurst),
		api.WithInsecureSkipVerify(profile.Insecure),
	)
	if err != nil {
		return nil, err
	}

	slog.Debug("session resolved",
		"url", profile.URL,
		"workspace", ws.String(),
		"profile", profile.Path,
		"authenticated", profile.AccessToken != "")

	return &session{profile: profile, workspace: ws, client: client}, nil
}

// parseOutputFormat reads and validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format: %q", f),
			map[string]any{"supported": serializer.SupportedFormats()})
	}
	return f, nil
}

// stdout returns the writer command results are printed to.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// stderr returns the writer progress and status lines are printed to.
func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
