package main

import (
	"fmt"
	"os"

	"github.com/skillsenselab/ecgflow/version"
)

const usage = `ecgflow - ECG denoising pipeline

Usage:
  ecgflow run [flags] <signal-file> [gaps-file]   run the pipeline on a recording
  ecgflow serve [flags]                           start the HTTP API server
  ecgflow version                                 print version information

Run "ecgflow <command> -h" for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "run":
		code = runCommand(os.Args[2:])
	case "serve":
		code = serveCommand(os.Args[2:])
	case "version":
		info := version.Get()
		fmt.Printf("ecgflow %s", version.Short())
		if info.GoVersion != "" {
			fmt.Printf(" (%s)", info.GoVersion)
		}
		fmt.Println()
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		code = 2
	}
	os.Exit(code)
}
