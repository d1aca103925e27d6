package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shadercomposer/nodegraph/pkg/nodespec"
)

// catalogCommand creates the catalog command group.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the node types documents are validated against",
	}
	cmd.AddCommand(c.catalogListCommand())
	return cmd
}

func (c *CLI) catalogListCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List node types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}
			fmt.Println(catalogTable(cat, verbose))
			source := "builtin"
			if c.catalogPath != "" {
				source = c.catalogPath
			}
			printDetail("%d node types from %s", cat.Len(), source)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "params", "p", false, "show parameter types and ranges")
	return cmd
}

func catalogTable(cat *nodespec.Catalog, params bool) string {
	headers := []string{"Type", "Category", "Inputs", "Outputs"}
	if params {
		headers = append(headers, "Parameters")
	}
	t := newTable(headers...)
	for _, s := range cat.Specs() {
		row := []string{s.ID, s.Category, formatPorts(s.Inputs), formatPorts(s.Outputs)}
		if params {
			row = append(row, formatParamSpecs(s))
		}
		t.Row(row...)
	}
	return t.Render()
}

func formatPorts(ports []nodespec.Port) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = p.Name + ":" + p.Type
	}
	return strings.Join(parts, " ")
}

func formatParamSpecs(s *nodespec.Spec) string {
	lines := make([]string, 0, len(s.Parameters))
	for _, name := range s.ParameterNames() {
		p := s.Parameters[name]
		line := name + ":" + string(p.Type)
		if p.HasRange() {
			lo, hi := "-∞", "∞"
			if p.Min != nil {
				lo = fmt.Sprintf("%g", *p.Min)
			}
			if p.Max != nil {
				hi = fmt.Sprintf("%g", *p.Max)
			}
			line += fmt.Sprintf(" [%s, %s]", lo, hi)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
