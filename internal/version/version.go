// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package version

// Version can be overridden at build time via ldflags:
// go build -ldflags="-X github.com/vizier-labs/vizier/internal/version.Version=vX.Y.Z"
var Version = "0.3.1"

// Get returns the current version
func Get() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
