package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadercomposer/nodegraph/pkg/document"
	"github.com/shadercomposer/nodegraph/pkg/errors"
	"github.com/shadercomposer/nodegraph/pkg/pipeline"
)

type migrateOpts struct {
	output  string
	inPlace bool
	force   bool
	pretty  bool
}

// migrateCommand creates the migrate command.
func (c *CLI) migrateCommand() *cobra.Command {
	var opts migrateOpts

	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Upgrade a document to format version " + document.CurrentVersion,
		Long: `Migrate loads a document, applies every registered migration whose legacy
pattern it contains, and writes the result in the current format.

Invalid documents are not written unless --force is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pretty") {
				opts.pretty = c.Config.Pretty
			}
			if opts.output == "" && !opts.inPlace {
				return fmt.Errorf("set --output or --in-place")
			}
			if opts.inPlace {
				opts.output = args[0]
			}
			return c.runMigrate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "overwrite the input file")
	cmd.Flags().BoolVar(&opts.force, "force", false, "write even if the migrated graph has validation errors")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", true, "indent the written JSON")
	cmd.MarkFlagsMutuallyExclusive("output", "in-place")

	return cmd
}

func (c *CLI) runMigrate(ctx context.Context, path string, opts migrateOpts) error {
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, path, pipeline.LoadOptions{Refresh: true})
	if err != nil {
		return err
	}
	if doc.Graph == nil {
		printIssues(doc.Errors, nil)
		return fmt.Errorf("%s: %s", path, errors.Messages(doc.Errors)[0])
	}
	if !doc.Valid() && !opts.force {
		printIssues(doc.Errors, doc.Warnings)
		return fmt.Errorf("%w: %s (use --force to write anyway)", errInvalid, path)
	}

	if err := runner.Save(ctx, opts.output, doc.Graph, doc.AudioSetup, opts.pretty); err != nil {
		return err
	}

	if doc.Migrated() {
		printSuccess("Migrated %s", path)
		for _, name := range doc.Applied {
			printDetail("applied %s", name)
		}
	} else {
		printInfo("%s is already current", path)
	}
	printFile(opts.output)
	return nil
}
