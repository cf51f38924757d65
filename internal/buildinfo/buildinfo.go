// Package buildinfo holds version data injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/upiwallet/internal/buildinfo.buildVersion=v1.2.0 \
//	  -X github.com/dmitrijs2005/upiwallet/internal/buildinfo.buildDate=2026-10-14 \
//	  -X github.com/dmitrijs2005/upiwallet/internal/buildinfo.buildCommit=abc1234" ./cmd/cli
package buildinfo

import (
	"fmt"
	"io"
)

const notAvailable = "N/A"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// Version returns the injected version, or "N/A".
func Version() string { return orNA(buildVersion) }

// PrintBuildData writes the version, date and commit lines to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", orNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(buildCommit))
}
