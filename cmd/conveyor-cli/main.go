// Conveyor CLI — инструмент командной строки для управления
// processors, workflows, flows и оркестрациями через HTTP API.
//
// Использование:
//
//	conveyor [--api-url URL] [--control-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	processor      Управление processors
//	workflow       Управление workflows и steps
//	flow           Управление orchestrated flows и assignments
//	orchestration  Запуск, остановка и статус оркестраций
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var controlURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "conveyor",
		Short:         "Conveyor CLI — flow orchestration tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Admin API server URL")
	rootCmd.PersistentFlags().StringVar(&controlURL, "control-url", "http://localhost:8081", "Orchestrator control URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL, controlURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewProcessorCmd(clientFn, outputFn),
		cli.NewWorkflowCmd(clientFn, outputFn),
		cli.NewFlowCmd(clientFn, outputFn),
		cli.NewOrchestrationCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
