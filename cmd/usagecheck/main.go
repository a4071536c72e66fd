package main

import (
	"context"
	"fmt"
	"os"

	chassis "github.com/ai8future/chassis-go/v5"

	"guidecraft/pkg/colors"
	"guidecraft/pkg/settings"
	"guidecraft/pkg/usage"
)

func main() {
	chassis.RequireMajor(5)

	s := settings.Load()

	c := &usage.Checker{
		APIKey:  s.OpenAIAPIKey,
		LogsDir: s.LogsDir,
	}
	c.Report(context.Background(), os.Stdout)

	fmt.Printf("\n%sTips:%s\n", colors.Cyan, colors.Reset)
	fmt.Println("   - Run this after guide creation to see usage")
	fmt.Println("   - Check the OpenAI dashboard for real-time usage: https://platform.openai.com/usage")
	fmt.Println("   - Local estimates may differ from actual costs")
	fmt.Println("   - The Phoenix dashboard shows detailed traces: https://app.phoenix.arize.com")
}
