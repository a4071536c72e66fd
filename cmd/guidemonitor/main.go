package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	chassis "github.com/ai8future/chassis-go/v5"

	"guidecraft/pkg/colors"
	"guidecraft/pkg/monitor"
	"guidecraft/pkg/settings"
)

func main() {
	chassis.RequireMajor(5)

	s := settings.Load()

	fmt.Printf("%sStarting Guide Creation Monitor...%s\n", colors.Bold, colors.Reset)
	fmt.Println("This will track your guide creation process in real-time")
	fmt.Println("\nTo use:")
	fmt.Println("1. Keep this monitor running")
	fmt.Println("2. In another terminal, run: guidecraft")
	fmt.Println("3. Watch the real-time updates here!")

	m, err := monitor.New(s.OutputDir, s.LogsDir, s.Monitor, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m.Run(ctx)
	m.Stop()
}
