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
package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

// Workspace identifies the workspace a request is scoped to. The zero value
// means the caller's personal workspace.
type Workspace struct {
	OrgID       int64
	WorkspaceID int64
}

// ParseWorkspace parses "ORG_ID/WORKSPACE_ID" or "WORKSPACE_ID". An empty
// string yields the zero Workspace.
func ParseWorkspace(s string) (Workspace, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Workspace{}, nil
	}

	orgPart, wsPart, hasOrg := strings.Cut(s, "/")
	if !hasOrg {
		wsPart, orgPart = orgPart, ""
	}

	var ws Workspace
	id, err := strconv.ParseInt(wsPart, 10, 64)
	if err != nil || id <= 0 {
		return Workspace{}, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid workspace %q: expected ORG_ID/WORKSPACE_ID or WORKSPACE_ID", s))
	}
	ws.WorkspaceID = id

	if hasOrg {
		org, err := strconv.ParseInt(orgPart, 10, 64)
		if err != nil || org <= 0 {
			return Workspace{}, apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid organization in workspace %q", s))
		}
		ws.OrgID = org
	}
	return ws, nil
}

// IsPersonal reports whether no workspace was selected.
func (w Workspace) IsPersonal() bool {
	return w.WorkspaceID == 0
}

// String returns the "ORG_ID/WORKSPACE_ID" form, or "personal".
func (w Workspace) String() string {
	switch {
	case w.IsPersonal():
		return "personal"
	case w.OrgID == 0:
		return strconv.FormatInt(w.WorkspaceID, 10)
	default:
		return fmt.Sprintf("%d/%d", w.OrgID, w.WorkspaceID)
	}
}

func (w Workspace) apply(q url.Values) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if !w.IsPersonal() {
		q.Set("workspaceId", strconv.FormatInt(w.WorkspaceID, 10))
	}
	return q
}
