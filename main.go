package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gesture-next/gesturecli/cli"
	"github.com/gesture-next/gesturecli/server"
)

func main() {
	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case <-sigChan:
		// close any live websocket sessions before exiting
		server.CloseAllSessions()
		os.Exit(0)
	case err := <-done:
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
