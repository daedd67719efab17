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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wfctl_dump_exports_total",
			Help: "Total number of bundle exports",
		},
		[]string{"status"}, // success or error
	)

	exportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wfctl_dump_export_duration_seconds",
			Help:    "Time taken to export a complete bundle",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 1800},
		},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wfctl_dump_stage_duration_seconds",
			Help:    "Time spent in each export stage",
			Buckets: []float64{0.1, 0.5, 1, 5, 30, 120, 600},
		},
		[]string{"stage"},
	)

	artifactTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wfctl_dump_artifacts_total",
			Help: "Best effort artifacts by kind and outcome",
		},
		[]string{"kind", "outcome"}, // outcome is available or not_available
	)
)
