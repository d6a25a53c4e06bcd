// Command gocontainer runs a command in a single isolated container.
//
//	gocontainer run [flags] [cpu_quota=<fraction>] [memory=<size>] <command...>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/criyle/go-container/container"
	"github.com/sirupsen/logrus"
)

func main() {
	if container.Init() {
		return
	}
	logrus.SetOutput(os.Stderr)

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			os.Exit(se.StatusCode)
		}
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
