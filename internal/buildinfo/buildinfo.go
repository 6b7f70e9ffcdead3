// Package buildinfo reports the version data linked into the binaries.
//
// Values are set at build time, for example:
//
//	go build -ldflags "-X github.com/dmitrijs2005/authkeeper/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

const notAvailable = "N/A"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// Info is the build metadata of the running binary.
type Info struct {
	Version string
	Date    string
	Commit  string
}

// Get returns the linked build data. A missing commit falls back to the VCS
// revision recorded by the Go toolchain.
func Get() Info {
	info := Info{
		Version: orNA(buildVersion),
		Date:    orNA(buildDate),
		Commit:  buildCommit,
	}
	if info.Commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.Commit = s.Value
				}
			}
		}
	}
	info.Commit = orNA(info.Commit)
	return info
}

// PrintBuildData writes the build data to w.
func PrintBuildData(w io.Writer) {
	info := Get()
	fmt.Fprintf(w, "Build version: %s\n", info.Version)
	fmt.Fprintf(w, "Build date: %s\n", info.Date)
	fmt.Fprintf(w, "Build commit: %s\n", info.Commit)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
