package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewProcessorCmd создаёт группу команд для управления процессорами.
func NewProcessorCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "processor",
		Short: "Manage processors",
	}

	cmd.AddCommand(
		newProcessorListCmd(clientFn, outputFn),
		newProcessorCreateCmd(clientFn, outputFn),
		newProcessorShowCmd(clientFn, outputFn),
		newProcessorDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newProcessorListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all processors",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			processors, err := client.ListProcessors()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "ACTIVE", "CREATED"}
			rows := make([][]string, len(processors))
			for i, p := range processors {
				rows[i] = []string{p.ID, p.Name, strconv.FormatBool(p.IsActive), p.CreatedAt}
			}

			out.Print(headers, rows, processors)
			return nil
		},
	}
}

func newProcessorCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new processor",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			processor, err := client.CreateProcessor(CreateProcessorRequest{
				Name:        name,
				Description: description,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Processor created: %s", processor.ID))
			out.Print(
				[]string{"ID", "NAME", "ACTIVE", "CREATED"},
				[][]string{{processor.ID, processor.Name, strconv.FormatBool(processor.IsActive), processor.CreatedAt}},
				processor,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Processor name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Processor description")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newProcessorShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show processor details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			processor, err := client.GetProcessor(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "DESCRIPTION", "ACTIVE", "CREATED"},
				[][]string{{processor.ID, processor.Name, processor.Description, strconv.FormatBool(processor.IsActive), processor.CreatedAt}},
				processor,
			)
			return nil
		},
	}
}

func newProcessorDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a processor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteProcessor(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Processor deleted: %s", args[0]))
			return nil
		},
	}
}
