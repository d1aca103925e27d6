package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadercomposer/nodegraph/pkg/pipeline"
)

// errInvalid is returned when at least one document fails validation, so
// the process exits non-zero without cobra printing usage.
var errInvalid = errors.New("validation failed")

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check documents against the node catalog",
		Long: `Validate parses each document, applies pending migrations in memory, and
checks the graph: node ids and types, parameter types and ranges, connection
endpoints and targets, duplicate connections, and automation lanes.

Warnings never fail validation unless --strict is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

func (c *CLI) runValidate(ctx context.Context, paths []string, strict bool) error {
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	failed := 0
	for _, path := range paths {
		prog := newProgress(c.Logger)
		doc, err := runner.Load(ctx, path, pipeline.LoadOptions{})
		if err != nil {
			printError("%s: %v", path, err)
			failed++
			continue
		}

		ok := doc.Valid() && !(strict && len(doc.Warnings) > 0)
		switch {
		case !ok:
			printError("%s", path)
			failed++
		case len(doc.Warnings) > 0:
			printWarning("%s", path)
		default:
			printSuccess("%s", path)
		}
		if doc.Graph != nil {
			fmt.Println(formatStats(doc.Graph.Stats(), doc.CacheHit))
		}
		printIssues(doc.Errors, doc.Warnings)
		if doc.Migrated() {
			printDetail("needs migration: %v", doc.Applied)
		}
		prog.done("Validated " + path)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d documents", errInvalid, failed, len(paths))
	}
	return nil
}
