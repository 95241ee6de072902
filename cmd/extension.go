package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// Environment passed to the extensions.
const (
	EnvConfigFile = "BUDGET_CONFIG"
	EnvEnvFile    = "BUDGET_ENV_FILE"
	EnvUser       = "BUDGET_USER"
	EnvVerbose    = "BUDGET_VERBOSE"
)

// RunExtension attempts to find and execute an external bgt-<subcommand> binary, with the
// global flags passed as environment variables.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "bgt-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		if *Verbose {
			log.Printf("external command %q not found in PATH: %v", name, err)
		}
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvEnvFile+"="+*envFile,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)
	if *userFlag != "" {
		cmd.Env = append(cmd.Env, EnvUser+"="+*userFlag)
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
