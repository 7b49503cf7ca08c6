package main

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// vcsInfo holds the values the Go toolchain stamps into the binary.
type vcsInfo struct {
	module   string
	revision string
	time     string
}

// readVCSInfo reads the embedded build information once.
var readVCSInfo = sync.OnceValue(func() vcsInfo {
	var info vcsInfo
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.module = bi.Main.Version
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.revision = s.Value
		case "vcs.time":
			info.time = s.Value
		}
	}
	return info
})

// firstNonEmpty returns the first non-empty value, or fallback.
func firstNonEmpty(fallback string, values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return fallback
}

// getVersion returns ldflags version, then module version, then "(devel)".
func getVersion() string {
	return firstNonEmpty("(devel)", version, readVCSInfo().module)
}

// getCommit returns the short commit hash or "unknown".
func getCommit() string {
	c := firstNonEmpty("unknown", commit, readVCSInfo().revision)
	if len(c) > 7 && commit == "" {
		return c[:7]
	}
	return c
}

// getDate returns the build date or "unknown".
func getDate() string {
	return firstNonEmpty("unknown", date, readVCSInfo().time)
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of sectioncheck.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sectioncheck version %s\n", getVersion())
			fmt.Fprintf(out, "  commit: %s\n", getCommit())
			fmt.Fprintf(out, "  built:  %s\n", getDate())
		},
	}
}
