package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			rev, built := buildStamp()
			fmt.Fprintf(out, "webcell %s (%s, built %s)\n", version, rev, built)
			fmt.Fprintf(out, "%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}

// buildStamp prefers the linker-set commit and date, then the VCS stamp
// the go command embeds.
func buildStamp() (rev, built string) {
	rev, built = commit, date
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return rev, built
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && rev == "none":
			rev = s.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
		case s.Key == "vcs.time" && built == "unknown":
			built = s.Value
		}
	}
	return rev, built
}
