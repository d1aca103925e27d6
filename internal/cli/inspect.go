package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
	"github.com/shadercomposer/nodegraph/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a document's nodes, connections and issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "I", false, "browse issues interactively")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, interactive bool) error {
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, path, pipeline.LoadOptions{})
	if err != nil {
		return err
	}
	if doc.Graph == nil {
		printError("%s could not be parsed", path)
		printIssues(doc.Errors, nil)
		return errInvalid
	}

	if interactive {
		model := NewIssueListModel(path, issuesOf(doc.Errors, doc.Warnings))
		_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
		return err
	}

	g := doc.Graph
	fmt.Println(StyleTitle.Render(g.Name))
	printKeyValue("id", g.ID)
	printKeyValue("version", g.Version)
	printKeyValue("format", doc.Version)
	if g.Automation != nil {
		printKeyValue("tempo", fmt.Sprintf("%g bpm · %gs", g.Automation.BPM, g.Automation.DurationSeconds))
	}
	fmt.Println(formatStats(g.Stats(), doc.CacheHit))
	fmt.Println()

	if len(g.Nodes) > 0 {
		fmt.Println(nodeTable(g, runner.Catalog))
	}
	if len(g.Connections) > 0 {
		fmt.Println(connectionTable(g))
	}

	if len(doc.Errors)+len(doc.Warnings) > 0 {
		fmt.Println()
		printIssues(doc.Errors, doc.Warnings)
		printNextStep("Browse issues", "nodegraph inspect -I "+path)
	}
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func nodeTable(g *graph.Graph, catalog *nodespec.Catalog) string {
	t := newTable("Node", "Type", "Label", "Parameters")
	for _, n := range g.Nodes {
		typ := n.Type
		if _, ok := catalog.Lookup(n.Type); !ok {
			typ = StyleError.Render(n.Type)
		}
		t.Row(n.ID, typ, n.Label, formatParams(n.Parameters))
	}
	return t.Render()
}

func connectionTable(g *graph.Graph) string {
	t := newTable("Connection", "From", "To")
	for _, conn := range g.Connections {
		to := conn.TargetNodeID + "." + conn.TargetName()
		if conn.TargetsParameter() {
			to += StyleDim.Render(" (param)")
		}
		t.Row(conn.ID, conn.SourceNodeID+"."+conn.SourcePort, to)
	}
	return t.Render()
}

// formatParams renders stored parameter values sorted by name.
func formatParams(ps map[string]any) string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%v", name, ps[name])
	}
	return strings.Join(parts, " ")
}
