// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package version exposes the build version string reported by
// --version. The value is injected at link time:
//
//	go build -ldflags "-X github.com/CruzerUzer/potterytracker/lib/version.Version=v1.2.0"
package version

// Version is the build version. "dev" for local builds.
var Version = "dev"

// Info returns the version string for CLI display.
func Info() string {
	return Version
}
