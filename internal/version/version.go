// Package version carries the build version, overridden at release time via
// -ldflags "-X github.com/clubstack/crm-cli/internal/version.Version=...".
package version

var Version = "dev"
