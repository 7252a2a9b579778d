// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opttester

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"text/tabwriter"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/cat"
	"github.com/fusequery/fusequery/pkg/sql/opt/planparse"
	"github.com/fusequery/fusequery/pkg/sql/opt/plans"
	"github.com/fusequery/fusequery/pkg/sql/opt/rule"
	"github.com/fusequery/fusequery/pkg/sql/opt/testutils/testcat"
	"github.com/fusequery/fusequery/pkg/sql/opt/xform"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/tools/container/intsets"
)

// RuleSet stores an unordered set of rule IDs. Like any intsets.Sparse, it
// must not be copied once it is non-empty.
type RuleSet = intsets.Sparse

// OptTester is a helper for testing the rewrite engine. It contains the
// boiler-plate code for the following useful tasks:
//   - Parse a plan and print it without any rewrites applied to it
//   - Optimize a plan and print the stable result
//   - Create a diff showing the optimizer's work, step-by-step
//   - Print the trace of substitutions and per-rule statistics
//
// The OptTester is used by tests in various sub-packages of the opt package.
type OptTester struct {
	Flags Flags

	catalog   cat.Catalog
	text      string
	ctx       context.Context
	seenRules RuleSet

	builder strings.Builder
}

// Flags are control knobs for tests. Note that specific testcases can
// override these defaults.
type Flags struct {
	// Rules is the rule set handed to the optimizer. It defaults to the
	// rewrite rules.
	Rules *rule.Set

	// DisableRules is a set of rules that are not allowed to run.
	DisableRules RuleSet

	// ExpectedRules is a set of rules which must be exercised for the test to
	// pass.
	ExpectedRules RuleSet

	// UnexpectedRules is a set of rules which must not be exercised for the
	// test to pass.
	UnexpectedRules RuleSet

	// MaxSubstitutions overrides the optimizer's substitution limit if
	// positive.
	MaxSubstitutions int

	// Selection is the candidate selection policy.
	Selection xform.SelectionPolicy

	// Verbose indicates whether verbose test debugging information will be
	// output to stdout when commands run. Only certain commands support this.
	Verbose bool
}

// New constructs a new instance of the OptTester for the given plan text.
// Tables referenced by the plan are resolved via the catalog.
func New(catalog cat.Catalog, text string) *OptTester {
	return &OptTester{
		catalog: catalog,
		text:    text,
		ctx:     context.Background(),
		Flags: Flags{
			Rules:     rule.DefaultSet(),
			Selection: xform.SelectFirst,
		},
	}
}

// RunCommand implements commands that are used by most tests:
//
//   - exec-ddl
//
//     Runs a DDL statement to build the test catalog. Only CREATE TABLE, DROP
//     TABLE and SHOW TABLE are supported. This is only available when using a
//     test catalog.
//
//   - build
//
//     Parses a plan and outputs it without any rewrites applied to it.
//
//   - opt [flags]
//
//     Parses a plan, optimizes it and outputs the stable result.
//
//   - optsteps [flags]
//
//     Outputs the plan after each substitution made by the optimizer, using
//     the standard unified diff format. Used for debugging the optimizer.
//
//   - trace [flags]
//
//     Outputs a table with one row per substitution.
//
//   - rulestats [flags]
//
//     Performs the optimization and outputs statistics about applied rules.
//
// Supported flags:
//
//   - rules: the rule set to use, "default" or "all".
//
//   - disable: disables optimizer rules by name. Examples:
//     opt disable=MergeFilter
//     opt disable=(MergeFilter,EliminateFilter)
//
//   - expect: fail the test if the rules specified by name do not fire.
//
//   - expect-not: fail the test if the rules specified by name fire.
//
//   - max-substitutions: overrides the substitution limit.
//
//   - selection: the candidate selection policy, "first" or "cheapest".
func (ot *OptTester) RunCommand(tb testing.TB, d *datadriven.TestData) string {
	// Allow testcases to override the flags.
	for _, a := range d.CmdArgs {
		if err := ot.Flags.Set(a); err != nil {
			d.Fatalf(tb, "%s", err)
		}
	}

	ot.Flags.Verbose = testing.Verbose()

	switch d.Cmd {
	case "exec-ddl":
		testCatalog, ok := ot.catalog.(*testcat.Catalog)
		if !ok {
			d.Fatalf(tb, "exec-ddl can only be used with a test catalog")
		}
		s, err := testCatalog.ExecuteDDL(d.Input)
		if err != nil {
			d.Fatalf(tb, "%v", err)
		}
		return s

	case "build":
		e, err := ot.Build()
		if err != nil {
			return fmt.Sprintf("error: %s\n", strings.TrimSpace(err.Error()))
		}
		return plans.FormatTree(e)

	case "opt":
		e, err := ot.Optimize()
		if err != nil {
			return fmt.Sprintf("error: %s\n", strings.TrimSpace(err.Error()))
		}
		if err := ot.postProcess(); err != nil {
			tb.Fatal(err)
		}
		return plans.FormatTree(e)

	case "optsteps":
		result, err := ot.OptSteps()
		if err != nil {
			d.Fatalf(tb, "%v", err)
		}
		return result

	case "trace":
		o, err := ot.run()
		if err != nil {
			d.Fatalf(tb, "%v", err)
		}
		if len(o.Trace()) == 0 {
			return "no substitutions\n"
		}
		return xform.FormatTrace(o.Trace())

	case "rulestats":
		result, err := ot.RuleStats()
		if err != nil {
			d.Fatalf(tb, "%v", err)
		}
		return result

	default:
		d.Fatalf(tb, "unsupported command: %s", d.Cmd)
		return ""
	}
}

func formatRuleSet(r *RuleSet) string {
	var buf strings.Builder
	for i, id := range r.AppendTo(nil) {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(opt.RuleID(id).String())
	}
	return buf.String()
}

func (ot *OptTester) postProcess() error {
	if !ot.Flags.ExpectedRules.SubsetOf(&ot.seenRules) {
		var unseen RuleSet
		unseen.Difference(&ot.Flags.ExpectedRules, &ot.seenRules)
		return errors.Newf("expected to see %s, but was not triggered. Did see %s",
			formatRuleSet(&unseen), formatRuleSet(&ot.seenRules))
	}

	if ot.Flags.UnexpectedRules.Intersects(&ot.seenRules) {
		var seen RuleSet
		seen.Intersection(&ot.Flags.UnexpectedRules, &ot.seenRules)
		return errors.Newf("expected not to see %s, but it was triggered", formatRuleSet(&seen))
	}

	return nil
}

// setRuleNames replaces the contents of set with the named rules.
func setRuleNames(set *RuleSet, args []string) error {
	ids, err := rule.ParseRuleIDs(args)
	if err != nil {
		return err
	}
	set.Clear()
	for _, id := range ids {
		set.Insert(int(id))
	}
	return nil
}

// Set parses an argument that refers to a flag.
// See OptTester.RunCommand for supported flags.
func (f *Flags) Set(arg datadriven.CmdArg) error {
	switch arg.Key {
	case "rules":
		if len(arg.Vals) != 1 {
			return errors.New("rules requires one argument")
		}
		switch arg.Vals[0] {
		case "default":
			f.Rules = rule.DefaultSet()
		case "all":
			f.Rules = rule.AllRules()
		default:
			return errors.Newf("unknown rule set %s", arg.Vals[0])
		}

	case "disable":
		if len(arg.Vals) == 0 {
			return errors.New("disable requires arguments")
		}
		ids, err := rule.ParseRuleIDs(arg.Vals)
		if err != nil {
			return err
		}
		for _, id := range ids {
			f.DisableRules.Insert(int(id))
		}

	case "expect":
		if err := setRuleNames(&f.ExpectedRules, arg.Vals); err != nil {
			return err
		}

	case "expect-not":
		if err := setRuleNames(&f.UnexpectedRules, arg.Vals); err != nil {
			return err
		}

	case "max-substitutions":
		if len(arg.Vals) != 1 {
			return errors.New("max-substitutions requires one argument")
		}
		n, err := strconv.Atoi(arg.Vals[0])
		if err != nil {
			return errors.Wrap(err, "max-substitutions")
		}
		f.MaxSubstitutions = n

	case "selection":
		if len(arg.Vals) != 1 {
			return errors.New("selection requires one argument")
		}
		p, err := xform.ParseSelectionPolicy(arg.Vals[0])
		if err != nil {
			return err
		}
		f.Selection = p

	default:
		return errors.Newf("unknown argument: %s", arg.Key)
	}
	return nil
}

// Build parses the plan, with no rewrites applied to it.
func (ot *OptTester) Build() (*opt.SExpr, error) {
	var md opt.Metadata
	return planparse.Parse(ot.ctx, ot.catalog, &md, ot.text)
}

// Optimize parses the plan and rewrites it until it is stable.
func (ot *OptTester) Optimize() (*opt.SExpr, error) {
	o := ot.makeOptimizer()
	o.NotifyOnMatchedRule(func(ruleID opt.RuleID) bool {
		return !ot.Flags.DisableRules.Has(int(ruleID))
	})
	o.NotifyOnAppliedRule(func(ruleID opt.RuleID, _, _ *opt.SExpr) {
		ot.seenRules.Insert(int(ruleID))
	})
	return ot.optimizeExpr(o)
}

// run optimizes the plan and returns the optimizer, for inspection of its
// trace.
func (ot *OptTester) run() (*xform.Optimizer, error) {
	o := ot.makeOptimizer()
	o.NotifyOnMatchedRule(func(ruleID opt.RuleID) bool {
		return !ot.Flags.DisableRules.Has(int(ruleID))
	})
	if _, err := ot.optimizeExpr(o); err != nil {
		return nil, err
	}
	return o, nil
}

// RuleStats performs the optimization and returns statistics about how many
// rules were applied.
func (ot *OptTester) RuleStats() (string, error) {
	o, err := ot.run()
	if err != nil {
		return "", err
	}
	stats := xform.RuleStats(o.Trace())

	var rewrite, explore []xform.RuleStat
	var allRewrite, allExplore int
	for _, s := range stats {
		if s.Rule.IsRewrite() {
			allRewrite += s.Applied
			rewrite = append(rewrite, s)
		} else {
			allExplore += s.Applied
			explore = append(explore, s)
		}
	}

	// Only show the top 5 rules.
	const topK = 5
	if len(rewrite) > topK {
		rewrite = rewrite[:topK]
	}
	if len(explore) > topK {
		explore = explore[:topK]
	}

	var res strings.Builder
	fmt.Fprintf(&res, "Rewrite rules applied %d times in %d passes.\n", allRewrite, o.Passes())
	if len(rewrite) > 0 {
		fmt.Fprintf(&res, "Top rewrite rules:\n")
		tw := tabwriter.NewWriter(&res, 1 /* minwidth */, 1 /* tabwidth */, 1 /* padding */, ' ', 0)
		for _, s := range rewrite {
			fmt.Fprintf(tw, "  %s\tapplied\t%d\ttimes.\n", s.Rule, s.Applied)
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(&res, "Exploration rules applied %d times.\n", allExplore)
	if len(explore) > 0 {
		fmt.Fprintf(&res, "Top exploration rules:\n")
		tw := tabwriter.NewWriter(&res, 1 /* minwidth */, 1 /* tabwidth */, 1 /* padding */, ' ', 0)
		for _, s := range explore {
			fmt.Fprintf(tw, "  %s\tapplied\t%d\ttimes.\n", s.Rule, s.Applied)
		}
		_ = tw.Flush()
	}
	return res.String(), nil
}

// OptSteps steps through the substitutions performed by the optimizer,
// one-by-one. The output of each step is the whole plan after the
// substitution, diff'd against the plan of the previous step using the
// standard unified diff format.
//
//	(Filter predicates=[a > 1, a > 1] (Scan table=t))
//
// triggers two substitutions:
//
//	EliminateFilter     Remove the duplicate "a > 1" predicate
//	PushDownFilterScan  Copy "a > 1" into the Scan
//
// Steps are computed by optimizing from scratch with a budget of one more
// substitution each time.
func (ot *OptTester) OptSteps() (string, error) {
	ot.builder.Reset()
	if ot.Flags.Verbose {
		fmt.Print("------ optsteps verbose output starts ------\n")
	}

	var prev string
	for step := 0; ; step++ {
		root, lastRule, done, err := ot.optimizeSteps(step)
		if err != nil {
			return "", err
		}
		next := plans.FormatTree(root)

		if step == 0 {
			ot.header("=", "Initial expression")
			ot.indent(next)
		} else if !done && next == prev {
			ot.header("-", lastRule.String()+" (no changes)")
		} else if !done {
			ot.header("=", lastRule.String())
			diff := difflib.UnifiedDiff{
				A:       difflib.SplitLines(prev),
				B:       difflib.SplitLines(next),
				Context: 100,
			}
			text, _ := difflib.GetUnifiedDiffString(diff)
			// Skip the "@@ ... @@" header (first line).
			text = strings.SplitN(text, "\n", 2)[1]
			ot.indent(text)
		}
		if done {
			ot.header("=", "Final best expression")
			ot.indent(next)
			break
		}
		prev = next
	}

	if ot.Flags.Verbose {
		fmt.Print("------ optsteps verbose output ends ------\n")
	}
	return ot.builder.String(), nil
}

// optimizeSteps optimizes the plan, allowing at most budget substitutions.
// It returns the resulting plan, the last rule applied, and whether the plan
// reached a stable state within the budget.
func (ot *OptTester) optimizeSteps(
	budget int,
) (root *opt.SExpr, lastRule opt.RuleID, done bool, err error) {
	o := ot.makeOptimizer()
	applied := 0
	o.NotifyOnMatchedRule(func(ruleID opt.RuleID) bool {
		return applied < budget && !ot.Flags.DisableRules.Has(int(ruleID))
	})
	o.NotifyOnAppliedRule(func(ruleID opt.RuleID, _, _ *opt.SExpr) {
		applied++
		lastRule = ruleID
	})
	root, err = ot.optimizeExpr(o)
	if err != nil {
		return nil, 0, false, err
	}
	return root, lastRule, applied < budget, nil
}

func (ot *OptTester) makeOptimizer() *xform.Optimizer {
	var o xform.Optimizer
	o.Init(ot.Flags.Rules)
	if ot.Flags.MaxSubstitutions > 0 {
		o.SetMaxSubstitutions(ot.Flags.MaxSubstitutions)
	}
	if ot.Flags.Selection == xform.SelectCheapest {
		o.SetCandidateSelector(&xform.CheapestCandidate{
			Coster: xform.NewRowCountCoster(ot.ctx, ot.catalog),
		})
	}
	return &o
}

func (ot *OptTester) optimizeExpr(o *xform.Optimizer) (*opt.SExpr, error) {
	root, err := ot.Build()
	if err != nil {
		return nil, err
	}
	return o.Optimize(ot.ctx, root)
}

func (ot *OptTester) output(format string, args ...interface{}) {
	fmt.Fprintf(&ot.builder, format, args...)
	if ot.Flags.Verbose {
		fmt.Printf(format, args...)
	}
}

func (ot *OptTester) header(sep, title string) {
	ot.separator(sep)
	ot.output("%s\n", title)
	ot.separator(sep)
}

func (ot *OptTester) separator(sep string) {
	ot.output("%s\n", strings.Repeat(sep, 80))
}

func (ot *OptTester) indent(str string) {
	str = strings.TrimRight(str, " \n\t\r")
	lines := strings.Split(str, "\n")
	for _, line := range lines {
		ot.output("  %s\n", line)
	}
}
