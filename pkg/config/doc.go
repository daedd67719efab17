// Package config loads wfctl connection settings from a YAML profile.
//
// The profile is optional. When --config is given the file must exist; when
// it is not, $HOME/.wfctl.yaml and ./.wfctl.yaml are tried in that order and
// silently skipped if absent. Values from the profile act as defaults for the
// matching CLI flags, which in turn may be set through WFCTL_* environment
// variables.
//
//	url: https://api.cloud.seqera.io
//	access_token: eyJ0...
//	workspace: 1234/5678
//	rate_limit: 10
package config
