package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewFlowCmd создаёт группу команд для управления orchestrated flows
// и их assignments.
func NewFlowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Manage orchestrated flows",
	}

	cmd.AddCommand(
		newFlowListCmd(clientFn, outputFn),
		newFlowCreateCmd(clientFn, outputFn),
		newFlowShowCmd(clientFn, outputFn),
		newFlowDeleteCmd(clientFn, outputFn),
		newAssignmentListCmd(clientFn, outputFn),
		newAssignmentCreateCmd(clientFn, outputFn),
	)

	return cmd
}

func newFlowListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all orchestrated flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			flows, err := client.ListFlows()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "WORKFLOW", "ACTIVE", "CREATED"}
			rows := make([][]string, len(flows))
			for i, f := range flows {
				rows[i] = []string{f.ID, f.Name, f.WorkflowID, strconv.FormatBool(f.IsActive), f.CreatedAt}
			}

			out.Print(headers, rows, flows)
			return nil
		},
	}
}

func newFlowCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, workflowID, payload string
	var assignmentIDs []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new orchestrated flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			flow, err := client.CreateFlow(CreateFlowRequest{
				Name:          name,
				WorkflowID:    workflowID,
				AssignmentIDs: assignmentIDs,
				Payload:       payload,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Orchestrated flow created: %s", flow.ID))
			out.Print(
				[]string{"ID", "NAME", "WORKFLOW", "ACTIVE", "CREATED"},
				[][]string{{flow.ID, flow.Name, flow.WorkflowID, strconv.FormatBool(flow.IsActive), flow.CreatedAt}},
				flow,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Flow name (required)")
	cmd.Flags().StringVar(&workflowID, "workflow", "", "Workflow id (required)")
	cmd.Flags().StringVar(&payload, "payload", "", "Initial payload for entry points")
	cmd.Flags().StringSliceVar(&assignmentIDs, "assignment", nil, "Assignment ids (repeatable)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("workflow")

	return cmd
}

func newFlowShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show orchestrated flow details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			flow, err := client.GetFlow(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "WORKFLOW", "ASSIGNMENTS", "ACTIVE", "CREATED"},
				[][]string{{flow.ID, flow.Name, flow.WorkflowID, strings.Join(flow.AssignmentIDs, ","), strconv.FormatBool(flow.IsActive), flow.CreatedAt}},
				flow,
			)
			return nil
		},
	}
}

func newFlowDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an orchestrated flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteFlow(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Orchestrated flow deleted: %s", args[0]))
			return nil
		},
	}
}

func newAssignmentListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "assignments",
		Short: "List all assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			assignments, err := client.ListAssignments()
			if err != nil {
				return err
			}

			headers := []string{"ID", "STEP", "NAME", "VALUE", "POS"}
			rows := make([][]string, len(assignments))
			for i, a := range assignments {
				rows[i] = []string{a.ID, a.StepID, a.Name, a.Value, strconv.Itoa(a.Position)}
			}

			out.Print(headers, rows, assignments)
			return nil
		},
	}
}

func newAssignmentCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var stepID, name, value string
	var position int

	cmd := &cobra.Command{
		Use:   "add-assignment",
		Short: "Create an assignment for a step",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			assignment, err := client.CreateAssignment(CreateAssignmentRequest{
				StepID:   stepID,
				Name:     name,
				Value:    value,
				Position: position,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Assignment created: %s", assignment.ID))
			out.Print(
				[]string{"ID", "STEP", "NAME", "VALUE", "POS"},
				[][]string{{assignment.ID, assignment.StepID, assignment.Name, assignment.Value, strconv.Itoa(assignment.Position)}},
				assignment,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&stepID, "step", "", "Step id (required)")
	cmd.Flags().StringVar(&name, "name", "", "Assignment name (required)")
	cmd.Flags().StringVar(&value, "value", "", "Assignment value")
	cmd.Flags().IntVar(&position, "position", 0, "Assignment position")
	cmd.MarkFlagRequired("step")
	cmd.MarkFlagRequired("name")

	return cmd
}
