// Package validate checks generated dashboards and rule files: every PromQL
// expression must parse and every metric it selects should be one the
// service exports or a recording rule defines.
package validate

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/wondersell/seller-stats/tools/dashgen/rules"
)

// histogramSuffixes are the series suffixes a histogram family exposes.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Result collects problems found during validation. Errors make the
// artifact unusable; warnings point at queries that will return no data.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) sort() {
	slices.Sort(r.Errors)
	slices.Sort(r.Warnings)
}

// Dashboard validates every Prometheus target in a built dashboard. The
// dashboard is walked in its JSON form so rows and nested panels of any
// type are covered.
func Dashboard(dash any, known map[string]bool) Result {
	var r Result

	data, err := json.Marshal(dash)
	if err != nil {
		r.errorf("marshaling dashboard: %v", err)
		return r
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		r.errorf("decoding dashboard: %v", err)
		return r
	}

	var queries int
	walk(doc, "", func(title, expr string) {
		queries++
		checkExpr(&r, "panel "+title, expr, known)
	})
	if queries == 0 {
		r.errorf("dashboard has no queries")
	}

	r.sort()
	return r
}

// Rules validates a PrometheusRule CR. Recording rule names are accepted as
// known metrics for the rules that follow them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var r Result

	seen := make(map[string]bool)
	for _, group := range cr.Spec.Groups {
		if len(group.Rules) == 0 {
			r.errorf("group %s: no rules", group.Name)
		}
		for _, rule := range group.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			switch {
			case name == "":
				r.errorf("group %s: rule without record or alert name", group.Name)
				continue
			case rule.Record != "" && rule.Alert != "":
				r.errorf("rule %s: both record and alert set", name)
			case seen[name]:
				r.errorf("rule %s: duplicate name", name)
			}
			seen[name] = true

			if rule.Alert != "" && rule.Labels["severity"] == "" {
				r.errorf("alert %s: missing severity label", name)
			}
			if rule.Record != "" && !known[rule.Record] {
				r.warnf("recording rule %s is not listed as a known metric", name)
			}
			checkExpr(&r, "rule "+name, rule.Expr, known)
		}
	}

	r.sort()
	return r
}

func checkExpr(r *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		r.errorf("%s: empty expression", where)
		return
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		r.errorf("%s: %v", where, err)
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !knownMetric(vs.Name, known) {
			r.warnf("%s: unknown metric %s", where, vs.Name)
		}
		return nil
	})
}

func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

func walk(node any, title string, fn func(title, expr string)) {
	switch v := node.(type) {
	case map[string]any:
		if t, ok := v["title"].(string); ok {
			title = t
		}
		if expr, ok := v["expr"].(string); ok {
			fn(title, expr)
		}
		for _, child := range v {
			walk(child, title, fn)
		}
	case []any:
		for _, child := range v {
			walk(child, title, fn)
		}
	}
}
