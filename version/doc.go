// Package version exposes build metadata for the catalog service.
//
// Version, git commit, branch and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/catalog/version.Version=1.0.0"
package version
