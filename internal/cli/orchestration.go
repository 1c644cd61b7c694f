package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewOrchestrationCmd создаёт группу команд управления оркестрациями.
// Команды ходят в управляющий API оркестратора, не в админ-API.
func NewOrchestrationCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orchestration",
		Short: "Start, stop and inspect orchestrations",
	}

	cmd.AddCommand(
		newOrchestrationStartCmd(clientFn, outputFn),
		newOrchestrationStopCmd(clientFn, outputFn),
		newOrchestrationStatusCmd(clientFn, outputFn),
	)

	return cmd
}

func newOrchestrationStartCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "start FLOW_ID",
		Short: "Start an orchestration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			start, err := client.StartOrchestration(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Orchestration started: %s", start.OrchestratedFlowID))
			out.Print(
				[]string{"FLOW_ID", "STARTED"},
				[][]string{{start.OrchestratedFlowID, start.StartedAt}},
				start,
			)
			return nil
		},
	}
}

func newOrchestrationStopCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stop FLOW_ID",
		Short: "Stop an orchestration (idempotent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.StopOrchestration(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Orchestration stopped: %s", args[0]))
			return nil
		},
	}
}

func newOrchestrationStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status FLOW_ID",
		Short: "Show orchestration status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.OrchestrationStatus(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"FLOW_ID", "ACTIVE", "STARTED", "EXPIRES", "STEPS", "ASSIGNMENTS"},
				[][]string{{
					status.OrchestratedFlowID,
					strconv.FormatBool(status.IsActive),
					status.StartedAt,
					status.ExpiresAt,
					strconv.Itoa(status.StepCount),
					strconv.Itoa(status.AssignmentCount),
				}},
				status,
			)
			return nil
		},
	}
}
