// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/fusequery/fusequery/pkg/sql/opt"
	"github.com/fusequery/fusequery/pkg/sql/opt/rule"
	"github.com/fusequery/fusequery/pkg/util/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxSubstitutions is the default bound on the number of rule
// applications performed by a single Optimize call.
const DefaultMaxSubstitutions = 1000

// ErrIterationLimit is returned by Optimize when the rules keep rewriting the
// tree after the maximum number of substitutions. This usually means that two
// rules undo each other. The caller may retry without the offending rules.
var ErrIterationLimit = errors.New("optimizer iteration limit exceeded")

// ErrRuleFault marks the errors returned by a rule's Apply method. The rule's
// contribution for the affected node is discarded; optimization goes on with
// the other rules.
var ErrRuleFault = errors.New("optimizer rule fault")

// MatchedRuleFunc defines the callback function for the NotifyOnMatchedRule
// event supported by the optimizer. See the comment in NotifyOnMatchedRule
// for more details.
type MatchedRuleFunc func(ruleID opt.RuleID) bool

// AppliedRuleFunc defines the callback function for the NotifyOnAppliedRule
// event supported by the optimizer. See the comment in NotifyOnAppliedRule
// for more details.
type AppliedRuleFunc func(ruleID opt.RuleID, before, after *opt.SExpr)

// State is the phase the optimizer is in.
type State uint8

const (
	// Scanning means the optimizer is walking the tree, testing rule
	// patterns.
	Scanning State = iota

	// Rewriting means a rule fired and its candidate is being substituted.
	Rewriting

	// Stable means a full pass over the tree made no substitution.
	Stable
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "Scanning"
	case Rewriting:
		return "Rewriting"
	case Stable:
		return "Stable"
	}
	return "Unknown"
}

// faultEvery limits how often rule faults are logged across all optimizers.
var faultEvery = log.Every(time.Second)

// Optimizer rewrites a logical plan tree by applying rules until no rule
// fires anymore.
//
// Every pass walks the tree bottom-up: the children of a node are stabilized
// before the node itself is tested. At each node, the rules are tested in ID
// order; the first rule whose pattern matches and that produces a candidate
// wins, and the selected candidate replaces the subtree. The new subtree is
// then stabilized in turn before returning to its parent, which is tested
// again. Passes are repeated until one of them makes no substitution.
//
// An Optimizer is not safe for concurrent use, but any number of optimizers
// can share the same rule set.
type Optimizer struct {
	rules            *rule.Set
	selector         CandidateSelector
	maxSubstitutions int
	tracer           trace.Tracer
	metrics          *Metrics

	// matchedRule is the callback function that is invoked each time an
	// optimization rule has matched a subtree. It can be nil.
	matchedRule MatchedRuleFunc

	// appliedRule is the callback function which is invoked each time an
	// optimization rule has been applied. It can be nil.
	appliedRule AppliedRuleFunc

	state         State
	substitutions int
	passes        int
	trace         []TraceEvent
	faults        []error
	faulted       map[opt.RuleID]struct{}
	result        rule.TransformResult
}

// Init initializes the Optimizer with the given rules, discarding any state
// and hooks left over from a previous use. Exploration rules are only useful
// together with a selector that rejects candidates that are not cheaper, see
// CheapestCandidate.
func (o *Optimizer) Init(rules *rule.Set) {
	*o = Optimizer{
		rules:            rules,
		selector:         FirstCandidate{},
		maxSubstitutions: DefaultMaxSubstitutions,
		tracer:           trace.NewNoopTracerProvider().Tracer(""),
	}
}

// SetMaxSubstitutions sets the maximum number of substitutions performed by
// one Optimize call.
func (o *Optimizer) SetMaxSubstitutions(n int) {
	o.maxSubstitutions = n
}

// SetCandidateSelector sets the policy that picks one of the candidates
// produced by a rule.
func (o *Optimizer) SetCandidateSelector(s CandidateSelector) {
	o.selector = s
}

// SetTracer sets the tracer used to create a span for each Optimize call.
func (o *Optimizer) SetTracer(tracer trace.Tracer) {
	o.tracer = tracer
}

// SetMetrics sets the metrics updated by the optimizer. It can be nil.
func (o *Optimizer) SetMetrics(m *Metrics) {
	o.metrics = m
}

// NotifyOnMatchedRule sets a callback function which is invoked each time an
// optimization rule has matched a subtree. If matchedRule is nil, then no
// further notifications are sent, and all rules are applied by default. In
// addition, callers can invoke the DisableOptimizations convenience method to
// disable all rules.
//
// If the callback returns false, the rule is skipped for that subtree.
func (o *Optimizer) NotifyOnMatchedRule(matchedRule MatchedRuleFunc) {
	o.matchedRule = matchedRule
}

// NotifyOnAppliedRule sets a callback function which is invoked each time an
// optimization rule has been applied, with the subtree it matched and the
// candidate that replaced it.
func (o *Optimizer) NotifyOnAppliedRule(appliedRule AppliedRuleFunc) {
	o.appliedRule = appliedRule
}

// DisableOptimizations disables all rules. Optimize then returns its input.
func (o *Optimizer) DisableOptimizations() {
	o.NotifyOnMatchedRule(func(opt.RuleID) bool { return false })
}

// State returns the current state of the optimizer.
func (o *Optimizer) State() State {
	return o.state
}

// Trace returns one event per substitution made by the last Optimize call, in
// the order they were made.
func (o *Optimizer) Trace() []TraceEvent {
	return o.trace
}

// Substitutions returns the number of substitutions made by the last Optimize
// call.
func (o *Optimizer) Substitutions() int {
	return o.substitutions
}

// Passes returns the number of passes made by the last Optimize call,
// including the final pass that made no substitution.
func (o *Optimizer) Passes() int {
	return o.passes
}

// Optimize rewrites root until it is stable and returns the result. The input
// tree is never modified; unchanged subtrees are shared with the result.
//
// If some rules faulted, Optimize returns both a valid tree, which was built
// without the faulty rules' contributions, and an error marked with
// ErrRuleFault. If the substitution limit is reached, it returns a nil tree
// and an error marked with ErrIterationLimit. The context is checked between
// passes.
func (o *Optimizer) Optimize(ctx context.Context, root *opt.SExpr) (_ *opt.SExpr, err error) {
	if o.rules == nil {
		return nil, errors.AssertionFailedf("optimizer not initialized")
	}
	ctx = logtags.AddTag(ctx, "opt", nil)
	ctx, sp := o.tracer.Start(ctx, "optimize")
	defer func() {
		sp.SetAttributes(
			attribute.Int("substitutions", o.substitutions),
			attribute.Int("passes", o.passes),
		)
		if err != nil {
			sp.RecordError(err)
			sp.SetStatus(codes.Error, err.Error())
		}
		sp.End()
	}()

	defer func() {
		// Trees are built with panics on malformed input. Convert those to
		// errors at this boundary.
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()

	o.state = Scanning
	o.substitutions = 0
	o.passes = 0
	o.trace = nil
	o.faults = nil
	o.faulted = nil
	if o.metrics != nil {
		o.metrics.Optimizations.Inc()
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o.passes++
		before := o.substitutions
		root, err = o.optimizeExpr(ctx, root)
		if err != nil {
			return nil, err
		}
		if o.substitutions == before {
			break
		}
		log.VEventf(ctx, 2, "pass %d made %d substitutions", o.passes, o.substitutions-before)
	}
	o.state = Stable

	var faults error
	for _, f := range o.faults {
		faults = errors.CombineErrors(faults, f)
	}
	return root, faults
}

// optimizeExpr returns the stable form of e.
func (o *Optimizer) optimizeExpr(ctx context.Context, e *opt.SExpr) (*opt.SExpr, error) {
	for {
		if n := e.ChildCount(); n > 0 {
			children := e.Children()
			var newChildren []*opt.SExpr
			for i, c := range children {
				newChild, err := o.optimizeExpr(ctx, c)
				if err != nil {
					return nil, err
				}
				if newChild != c && newChildren == nil {
					newChildren = make([]*opt.SExpr, n)
					copy(newChildren, children[:i])
				}
				if newChildren != nil {
					newChildren[i] = newChild
				}
			}
			if newChildren != nil {
				e = e.WithChildren(newChildren...)
			}
		}

		replaced, err := o.applyRules(ctx, e)
		if err != nil {
			return nil, err
		}
		if replaced == nil {
			return e, nil
		}
		e = replaced
	}
}

// applyRules tests the rules against e, in ID order, and returns the
// replacement selected from the first rule that produces candidates. It
// returns nil if no rule fires.
func (o *Optimizer) applyRules(ctx context.Context, e *opt.SExpr) (*opt.SExpr, error) {
	o.state = Scanning
	for _, r := range o.rules.Rules() {
		if !opt.Matches(r.Pattern(), e) {
			continue
		}
		if o.matchedRule != nil && !o.matchedRule(r.ID()) {
			continue
		}

		o.result.Reset()
		if err := o.applyRule(r, e); err != nil {
			o.recordFault(ctx, r.ID(), e, err)
			continue
		}
		if o.result.Len() == 0 {
			continue
		}
		chosen := o.selector.SelectCandidate(r.ID(), e, o.result.Candidates())
		o.result.Reset()
		if chosen == nil {
			continue
		}

		if o.substitutions >= o.maxSubstitutions {
			if o.metrics != nil {
				o.metrics.IterationLimitErrors.Inc()
			}
			return nil, errors.Wrapf(ErrIterationLimit,
				"%d substitutions made, last rule %s", errors.Safe(o.substitutions), r.ID())
		}
		o.state = Rewriting
		o.substitutions++
		o.trace = append(o.trace, TraceEvent{Rule: r.ID(), Before: e.Shape(), After: chosen.Shape()})
		if o.metrics != nil {
			o.metrics.RulesApplied.WithLabelValues(r.ID().String()).Inc()
		}
		log.VEventf(ctx, 2, "%s: %s => %s", r.ID(), e.Shape(), chosen.Shape())
		if o.appliedRule != nil {
			o.appliedRule(r.ID(), e, chosen)
		}
		return chosen, nil
	}
	return nil, nil
}

// applyRule calls r.Apply, converting panics raised while the rule builds
// its candidates into errors.
func (o *Optimizer) applyRule(r rule.Rule, e *opt.SExpr) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = opt.CatchOptimizerError(p)
		}
	}()
	return r.Apply(e, &o.result)
}

func (o *Optimizer) recordFault(ctx context.Context, id opt.RuleID, e *opt.SExpr, err error) {
	if o.metrics != nil {
		o.metrics.RuleFaults.WithLabelValues(id.String()).Inc()
	}
	if faultEvery.ShouldLog() {
		log.Warningf(ctx, "rule %s failed on %s: %v", id, e.Shape(), err)
	}
	if _, ok := o.faulted[id]; ok {
		return
	}
	if o.faulted == nil {
		o.faulted = make(map[opt.RuleID]struct{})
	}
	o.faulted[id] = struct{}{}
	err = errors.Wrapf(err, "rule %s on %s", id, errors.Safe(e.Shape()))
	o.faults = append(o.faults, errors.Mark(err, ErrRuleFault))
}
