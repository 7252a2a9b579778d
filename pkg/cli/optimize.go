// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/fusequery/fusequery/pkg/config"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
	"github.com/fusequery/fusequery/pkg/sql/opt/planparse"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/testutils/testcat"
	"github.com/fusequery/fusequery/pkg/sql/opt/xform"
	"github.com/fusequery/fusequery/pkg/util/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [file|-]",
	Short: "optimize a logical plan",
	Long: `
Reads a logical plan in S-expression form from the given file, or from
stdin if the file is omitted or "-", and prints the optimized plan.

The tables referenced by the plan are defined in the catalog section of
the configuration file, or in the file passed to --catalog.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOptimize,
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx := logtags.AddTag(context.Background(), "optimize", nil)

	cfg, err := config.Load(optCtx.configFile)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return err
	}
	if optCtx.catalogFile != "" {
		c, err := config.LoadCatalog(optCtx.catalogFile)
		if err != nil {
			return err
		}
		cfg.Catalog.Tables = append(cfg.Catalog.Tables, c.Tables...)
	}

	defer log.SetOutput(log.SetOutput(cmd.ErrOrStderr()))
	defer log.SetVerbosity(log.SetVerbosity(cfg.Log.Verbosity))
	log.SetRedactable(cfg.Log.Redactable)

	catalog, err := buildCatalog(&cfg.Catalog)
	if err != nil {
		return err
	}
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var md opt.Metadata
	root, err := planparse.Parse(ctx, catalog, &md, text)
	if err != nil {
		return err
	}

	var o xform.Optimizer
	o.Init(cfg.Rules())
	o.SetMaxSubstitutions(cfg.Optimizer.MaxSubstitutions)
	if cfg.Selection() == xform.SelectCheapest {
		o.SetCandidateSelector(&xform.CheapestCandidate{
			Coster: xform.NewRowCountCoster(ctx, catalog),
		})
	}
	o.SetTracer(otel.Tracer("fusequery-opt"))

	res, err := o.Optimize(ctx, root)
	if res == nil {
		return err
	}
	if err != nil {
		// Faulty rules were skipped, the plan is still valid.
		log.Warningf(ctx, "%v", err)
	}
	log.VEventf(ctx, 1, "%d substitutions in %d passes", o.Substitutions(), o.Passes())

	out := cmd.OutOrStdout()
	fmt.Fprint(out, plans.FormatTree(res))
	if optCtx.trace {
		fmt.Fprintln(out)
		if len(o.Trace()) == 0 {
			fmt.Fprintln(out, "no substitutions")
		} else {
			fmt.Fprint(out, xform.FormatTrace(o.Trace()))
		}
	}
	return nil
}

// buildCatalog creates an in-memory catalog holding the configured tables.
func buildCatalog(c *config.CatalogConfig) (*testcat.Catalog, error) {
	catalog := testcat.New()
	for _, tab := range c.Tables {
		cols := make([]cat.Column, len(tab.Columns))
		for i, col := range tab.Columns {
			cols[i] = cat.Column{Name: col.Name, Type: strings.ToLower(col.Type)}
		}
		if _, err := catalog.AddTable(tab.Name, cols, tab.RowCount()); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", errors.Wrap(err, "reading plan")
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no plan given")
	}
	return string(data), nil
}
