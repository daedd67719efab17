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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	archiveEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wfctl_archive_entries_total",
			Help: "Total number of archive jobs by outcome",
		},
		[]string{"status"}, // written, failed or discarded
	)

	archiveBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wfctl_archive_payload_bytes_total",
			Help: "Total uncompressed payload bytes written into archives",
		},
	)

	archiveDrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wfctl_archive_drain_duration_seconds",
			Help:    "Time Close waited for the archive worker to drain",
			Buckets: []float64{0.01, 0.1, 1, 10, 60, 300},
		},
	)
)
