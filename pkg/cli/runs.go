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
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/wfctl/pkg/api"
	"github.com/NVIDIA/wfctl/pkg/defaults"
	"github.com/NVIDIA/wfctl/pkg/dump"
	"github.com/NVIDIA/wfctl/pkg/oci"
	"github.com/NVIDIA/wfctl/pkg/serializer"
)

func idFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "id",
		Aliases:  []string{"i"},
		Usage:    "Workflow run identifier",
		Required: true,
	}
}

func runsCmd() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect workflow runs",
		Commands: []*cli.Command{
			runsDumpCmd(),
			runsTasksCmd(),
		},
	}
}

func runsDumpCmd() *cli.Command {
	return &cli.Command{
		Name:                  "dump",
		EnableShellCompletion: true,
		Usage:                 "Export a workflow run into a diagnostic bundle",
		Description: `Collect the data needed to troubleshoot a workflow run into a single
compressed tar archive:
  - service-info.json       platform version
  - workflow.json           the run as reported by the platform
  - workflow-metadata.json  workspace, submitter and export details
  - workflow-load.json      task counters and resource load
  - workflow-launch.json    launch settings, when the run has one
  - workflow-metrics.json   per-process resource usage
  - nextflow.log            engine log, when available
  - workflow-tasks.json     every task of the run
  - tasks/<taskId>/...      task logs, with --add-task-logs or --add-fusion-logs

The output suffix selects the compression: .tar.gz or .tar.xz.

# Examples

Bundle a run with the logs of its failed tasks:
  wfctl runs dump --id 4Bi5 --output run.tar.gz --add-task-logs --only-failed

Bundle and publish to a registry:
  wfctl runs dump --id 4Bi5 --output run.tar.xz --push oci://ghcr.io/acme/diagnostics`,
		Flags: []cli.Flag{
			idFlag(),
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Bundle file, ending in .tar.gz or .tar.xz",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "add-task-logs",
				Usage: "Add .command.out, .command.err and .command.log of each task",
			},
			&cli.BoolFlag{
				Name:  "add-fusion-logs",
				Usage: "Add .fusion.log of each task",
			},
			&cli.BoolFlag{
				Name:  "only-failed",
				Usage: "Limit task logs to failed tasks",
			},
			&cli.BoolFlag{
				Name:  "silent",
				Usage: "Do not print progress",
			},
			&cli.BoolFlag{
				Name:  "remove-partial",
				Usage: "Remove the bundle file when the export fails (default: keep it for inspection)",
			},
			&cli.DurationFlag{
				Name:  "close-timeout",
				Usage: "Maximum wait for pending archive entries to be written",
				Value: defaults.ArchiveCloseTimeout,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Deadline for the whole export",
				Value: defaults.CLIDumpTimeout,
			},
			&cli.StringFlag{
				Name:  "push",
				Usage: "Also push the bundle as an OCI artifact (oci://registry/repository[:tag], tag defaults to the run id)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for --push",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write export metrics in Prometheus text format to this file",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("Print the export summary in this format (%v) instead of the bundle path", serializer.SupportedFormats()),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var outFormat serializer.Format
			if cmd.IsSet("format") {
				f, err := parseOutputFormat(cmd)
				if err != nil {
					return err
				}
				outFormat = f
			}

			req := dump.Request{
				WorkflowID:        cmd.String("id"),
				OutputPath:        cmd.String("output"),
				IncludeTaskLogs:   cmd.Bool("add-task-logs"),
				IncludeFusionLogs: cmd.Bool("add-fusion-logs"),
				OnlyFailedTasks:   cmd.Bool("only-failed"),
				Silent:            cmd.Bool("silent"),
			}
			// Fail on a bad output path or push target before touching the network.
			if _, err := req.Validate(); err != nil {
				return err
			}
			pushRef, err := parsePushTarget(cmd.String("push"), req.WorkflowID)
			if err != nil {
				return err
			}

			if path := cmd.String("metrics-file"); path != "" {
				defer writeMetrics(path)
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			req.Workspace = s.workspace

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			d := dump.New(s.client,
				dump.WithStatusWriter(stderr(cmd)),
				dump.WithCloseTimeout(cmd.Duration("close-timeout")),
				dump.WithRemovePartial(cmd.Bool("remove-partial")),
				dump.WithClientVersion(version),
			)
			res, err := d.Export(ctx, req)
			if err != nil {
				return err
			}

			var pushed *oci.PushResult
			if pushRef != nil {
				pushed, err = oci.PushFile(ctx, oci.PushOptions{
					FilePath:    res.OutputPath,
					Reference:   pushRef,
					PlainHTTP:   cmd.Bool("plain-http"),
					InsecureTLS: s.profile.Insecure,
					Annotations: bundleAnnotations(res),
				})
				if err != nil {
					return err
				}
				slog.Info("bundle pushed", "reference", pushed.Reference, "digest", pushed.Digest)
			}

			if outFormat == "" {
				if !req.Silent {
					fmt.Fprintln(stderr(cmd), res.Summary())
				}
				fmt.Fprintln(stdout(cmd), res.OutputPath)
				if pushed != nil {
					fmt.Fprintf(stdout(cmd), "%s@%s\n", pushed.Reference, pushed.Digest)
				}
				return nil
			}

			return serializer.NewWriter(outFormat, stdout(cmd)).Serialize(ctx, dumpOutput{Export: res, Push: pushed})
		},
	}
}

// dumpOutput is the serialized summary of runs dump.
type dumpOutput struct {
	Export *dump.Result    `json:"export" yaml:"export"`
	Push   *oci.PushResult `json:"push,omitempty" yaml:"push,omitempty"`
}

func parsePushTarget(target, workflowID string) (*oci.Reference, error) {
	if target == "" {
		return nil, nil
	}
	ref, err := oci.ParseReference(target)
	if err != nil {
		return nil, err
	}
	if ref.Tag == "" {
		ref = ref.WithTag(workflowID)
	}
	return ref, nil
}

func bundleAnnotations(res *dump.Result) map[string]string {
	return map[string]string{
		"org.opencontainers.image.title":   filepath.Base(res.OutputPath),
		"org.opencontainers.image.version": version,
		"org.opencontainers.image.created": time.Now().UTC().Format(time.RFC3339),
		"io.wfctl.workflow.id":             res.WorkflowID,
		"io.wfctl.export.id":               res.ExportID,
		"io.wfctl.entries":                 strconv.Itoa(len(res.Entries)),
	}
}

func writeMetrics(path string) {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		slog.Error("failed to write metrics", "path", path, "error", err)
		return
	}
	slog.Debug("metrics written", "path", path)
}

func runsTasksCmd() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "List the tasks of a workflow run",
		Flags: []cli.Flag{
			idFlag(),
			&cli.BoolFlag{
				Name:  "only-failed",
				Usage: "List failed tasks only",
			},
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

			tasks := make(taskList, 0, dump.PageSize)
			for t, err := range dump.Tasks(ctx, s.client, cmd.String("id"), s.workspace) {
				if err != nil {
					return err
				}
				if cmd.Bool("only-failed") && !t.Failed() {
					continue
				}
				tasks = append(tasks, t)
			}

			return serializer.NewWriter(outFormat, stdout(cmd)).Serialize(ctx, tasks)
		},
	}
}

// taskList renders tasks one per row in table format.
type taskList []api.Task

func (l taskList) TableHeader() []string {
	return []string{"TASK_ID", "HASH", "NAME", "STATUS", "EXIT"}
}

func (l taskList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, t := range l {
		exit := "-"
		if t.ExitStatus != nil {
			exit = strconv.Itoa(*t.ExitStatus)
		}
		rows = append(rows, []string{strconv.FormatInt(t.TaskID, 10), t.Hash, t.Name, string(t.Status), exit})
	}
	return rows
}
