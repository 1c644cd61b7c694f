package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewWorkflowCmd создаёт группу команд для управления workflows и шагами.
func NewWorkflowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Manage workflows and their steps",
	}

	cmd.AddCommand(
		newWorkflowListCmd(clientFn, outputFn),
		newWorkflowCreateCmd(clientFn, outputFn),
		newWorkflowShowCmd(clientFn, outputFn),
		newWorkflowDeleteCmd(clientFn, outputFn),
		newWorkflowStepsCmd(clientFn, outputFn),
		newWorkflowAddStepCmd(clientFn, outputFn),
	)

	return cmd
}

func newWorkflowListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workflows, err := client.ListWorkflows()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "CREATED"}
			rows := make([][]string, len(workflows))
			for i, w := range workflows {
				rows[i] = []string{w.ID, w.Name, w.CreatedAt}
			}

			out.Print(headers, rows, workflows)
			return nil
		},
	}
}

func newWorkflowCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workflow, err := client.CreateWorkflow(CreateWorkflowRequest{
				Name:        name,
				Description: description,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow created: %s", workflow.ID))
			out.Print(
				[]string{"ID", "NAME", "CREATED"},
				[][]string{{workflow.ID, workflow.Name, workflow.CreatedAt}},
				workflow,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workflow name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Workflow description")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newWorkflowShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show workflow details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workflow, err := client.GetWorkflow(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "DESCRIPTION", "CREATED"},
				[][]string{{workflow.ID, workflow.Name, workflow.Description, workflow.CreatedAt}},
				workflow,
			)
			return nil
		},
	}
}

func newWorkflowDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a workflow and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteWorkflow(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow deleted: %s", args[0]))
			return nil
		},
	}
}

func newWorkflowStepsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "steps WORKFLOW_ID",
		Short: "List workflow steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			steps, err := client.ListSteps(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "PROCESSOR", "NEXT"}
			rows := make([][]string, len(steps))
			for i, s := range steps {
				rows[i] = []string{s.ID, s.Name, s.ProcessorID, strings.Join(s.NextStepIDs, ",")}
			}

			out.Print(headers, rows, steps)
			return nil
		},
	}
}

func newWorkflowAddStepCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, processorID string
	var nextStepIDs []string

	cmd := &cobra.Command{
		Use:   "add-step WORKFLOW_ID",
		Short: "Add a step to a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			step, err := client.CreateStep(args[0], CreateStepRequest{
				Name:        name,
				ProcessorID: processorID,
				NextStepIDs: nextStepIDs,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Step created: %s", step.ID))
			out.Print(
				[]string{"ID", "NAME", "PROCESSOR", "NEXT"},
				[][]string{{step.ID, step.Name, step.ProcessorID, strings.Join(step.NextStepIDs, ",")}},
				step,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Step name")
	cmd.Flags().StringVar(&processorID, "processor", "", "Processor id (required)")
	cmd.Flags().StringSliceVar(&nextStepIDs, "next", nil, "Next step ids (repeatable)")
	cmd.MarkFlagRequired("processor")

	return cmd
}
