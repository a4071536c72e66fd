package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	chassis "github.com/ai8future/chassis-go/v5"
	"go.uber.org/zap"

	"guidecraft/pkg/colors"
	"guidecraft/pkg/crew"
	"guidecraft/pkg/envelope"
	"guidecraft/pkg/flow"
	"guidecraft/pkg/llm"
	"guidecraft/pkg/lock"
	"guidecraft/pkg/logging"
	"guidecraft/pkg/phoenix"
	"guidecraft/pkg/settings"
	"guidecraft/pkg/tracking"
	"guidecraft/pkg/workspace"
)

func main() {
	chassis.RequireMajor(5)

	jsonOutput := flag.Bool("j", false, "Output final envelope as JSON")
	htmlPreview := flag.Bool("html", false, "Also write an HTML preview of the guide")
	topic := flag.String("topic", "", "Guide topic (skips interactive prompt)")
	audience := flag.String("audience", "", "Audience level: beginner, intermediate or advanced")
	verbose := flag.Bool("v", false, "Verbose session logging")
	flag.Parse()

	s := settings.Load()

	if s.OpenAIAPIKey == "" {
		fmt.Fprintf(os.Stderr, "%sError: OPENAI_API_KEY not set%s\n", colors.Red, colors.Reset)
		fmt.Fprintln(os.Stderr, "Set it in the environment or in a .env file.")
		os.Exit(1)
	}

	ws, err := workspace.New(s.OutputDir, s.LogsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewSessionLogger(ws.SessionLogPath(), *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// One run per output directory at a time.
	fl, err := lock.Acquire(lock.GetIdentifier(s.OutputDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer fl.Release()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, traced := phoenix.Setup(ctx, s.Phoenix, os.Stdout)
	defer shutdown(context.Background())

	client, err := llm.NewOpenAIClient(s.OpenAIAPIKey, s.Model, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	costs := tracking.NewCostEstimator(os.Stdout)
	logger.Info("starting guide creation",
		zap.String("model", s.Model),
		zap.String("run_id", ws.RunID))

	f := flow.New(flow.Config{
		Settings:    s,
		Client:      client,
		Crew:        crew.NewContentCrew(client, costs),
		Workspace:   ws,
		Logger:      logger,
		Costs:       costs,
		HTMLPreview: *htmlPreview,
		Topic:       *topic,
		Audience:    *audience,
	})
	env := f.Run(ctx)

	if traced && env.Status == envelope.StatusSuccess {
		fmt.Printf("\n%sCheck your Phoenix dashboard for observability data:%s\n", colors.Cyan, colors.Reset)
		fmt.Println("   https://app.phoenix.arize.com")
	}

	if *jsonOutput {
		json.NewEncoder(os.Stdout).Encode(env)
	}

	if env.Status != envelope.StatusSuccess {
		os.Exit(1)
	}
}
