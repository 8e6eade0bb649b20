// Package filter parses AIP-160 filter expressions over the event journal and
// translates them into SQL conditions and in-memory predicates.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

// EventDeclarations returns the field declarations for event filtering.
func EventDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("type", filtering.TypeString),
		filtering.DeclareIdent("actor_id", filtering.TypeString),
		filtering.DeclareIdent("entity_type", filtering.TypeString),
		filtering.DeclareIdent("entity_id", filtering.TypeString),
		filtering.DeclareIdent("request_id", filtering.TypeString),
		filtering.DeclareIdent("ts", filtering.TypeTimestamp),
	)
}

// Condition is a parsed filter. Clause and Params form a SQL WHERE fragment;
// Match evaluates the same expression against an event in memory.
type Condition struct {
	// Clause is the SQL WHERE fragment (e.g., "event_type = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any

	match func(event.Event) bool
}

// Empty reports whether the condition matches every event.
func (c Condition) Empty() bool {
	return c.Clause == ""
}

// Match reports whether evt satisfies the condition.
func (c Condition) Match(evt event.Event) bool {
	if c.match == nil {
		return true
	}
	return c.match(evt)
}

// field describes how one filter identifier maps to storage and to events.
type field struct {
	column string
	text   func(event.Event) string
}

var fields = map[string]field{
	"type":        {column: "event_type", text: func(e event.Event) string { return string(e.Type) }},
	"actor_id":    {column: "actor_id", text: func(e event.Event) string { return e.ActorID }},
	"entity_type": {column: "entity_type", text: func(e event.Event) string { return e.EntityType }},
	"entity_id":   {column: "entity_id", text: func(e event.Event) string { return e.EntityID }},
	"request_id":  {column: "request_id", text: func(e event.Event) string { return e.RequestID }},
	"ts":          {column: "timestamp_ms"},
}

// ParseEventFilter parses an AIP-160 filter expression. An empty filter
// yields an empty condition.
func ParseEventFilter(filterStr string) (Condition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return Condition{}, nil
	}

	decls, err := EventDeclarations()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("parse filter: %w", err)
	}

	return translateExpr(parsed.CheckedExpr.GetExpr())
}

func translateExpr(e *expr.Expr) (Condition, error) {
	if e == nil {
		return Condition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return Condition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (Condition, error) {
	switch call.Function {
	case filtering.FunctionAnd:
		return translateLogical(call.Args, "AND")
	case filtering.FunctionOr:
		return translateLogical(call.Args, "OR")
	case filtering.FunctionNot:
		return translateNot(call.Args)
	case filtering.FunctionEquals:
		return translateComparison(call.Args, "=")
	case filtering.FunctionNotEquals:
		return translateComparison(call.Args, "!=")
	case filtering.FunctionLessThan:
		return translateComparison(call.Args, "<")
	case filtering.FunctionLessEquals:
		return translateComparison(call.Args, "<=")
	case filtering.FunctionGreaterThan:
		return translateComparison(call.Args, ">")
	case filtering.FunctionGreaterEquals:
		return translateComparison(call.Args, ">=")
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateLogical(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translateExpr(args[0])
	if err != nil {
		return Condition{}, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return Condition{}, err
	}

	match := func(evt event.Event) bool { return left.Match(evt) && right.Match(evt) }
	if op == "OR" {
		match = func(evt event.Event) bool { return left.Match(evt) || right.Match(evt) }
	}
	return Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(append([]any(nil), left.Params...), right.Params...),
		match:  match,
	}, nil
}

func translateNot(args []*expr.Expr) (Condition, error) {
	if len(args) != 1 {
		return Condition{}, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(args[0])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("(NOT %s)", inner.Clause),
		Params: inner.Params,
		match:  func(evt event.Event) bool { return !inner.Match(evt) },
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	name, err := extractFieldName(args[0])
	if err != nil {
		return Condition{}, err
	}
	f, ok := fields[name]
	if !ok {
		return Condition{}, fmt.Errorf("unknown field: %s", name)
	}

	if name == "ts" {
		at, err := extractTimestamp(args[1])
		if err != nil {
			return Condition{}, err
		}
		ms := at.UnixMilli()
		return Condition{
			Clause: fmt.Sprintf("%s %s ?", f.column, op),
			Params: []any{ms},
			match: func(evt event.Event) bool {
				return compareInt(evt.Timestamp.UnixMilli(), ms, op)
			},
		}, nil
	}

	value, err := extractString(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("%s %s ?", f.column, op),
		Params: []any{value},
		match: func(evt event.Event) bool {
			return compareString(f.text(evt), value, op)
		},
	}, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}
	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractString(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}
	constant, ok := e.ExprKind.(*expr.Expr_ConstExpr)
	if !ok {
		return "", fmt.Errorf("expected constant, got %T", e.ExprKind)
	}
	switch kind := constant.ConstExpr.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return fmt.Sprintf("%d", kind.Int64Value), nil
	case *expr.Constant_Uint64Value:
		return fmt.Sprintf("%d", kind.Uint64Value), nil
	default:
		return "", fmt.Errorf("unsupported constant type: %T", kind)
	}
}

// extractTimestamp accepts timestamp("...") calls and bare RFC 3339 strings.
func extractTimestamp(e *expr.Expr) (time.Time, error) {
	if e == nil {
		return time.Time{}, fmt.Errorf("nil timestamp argument")
	}
	if call, ok := e.ExprKind.(*expr.Expr_CallExpr); ok {
		if call.CallExpr.Function != filtering.FunctionTimestamp || len(call.CallExpr.Args) != 1 {
			return time.Time{}, fmt.Errorf("unsupported function in value position: %s", call.CallExpr.Function)
		}
		e = call.CallExpr.Args[0]
	}
	raw, err := extractString(e)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp argument must be a constant string")
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: %s", raw)
	}
	return at.UTC(), nil
}

func compareString(got, want, op string) bool {
	switch op {
	case "=":
		return got == want
	case "!=":
		return got != want
	case "<":
		return got < want
	case "<=":
		return got <= want
	case ">":
		return got > want
	case ">=":
		return got >= want
	}
	return false
}

func compareInt(got, want int64, op string) bool {
	switch op {
	case "=":
		return got == want
	case "!=":
		return got != want
	case "<":
		return got < want
	case "<=":
		return got <= want
	case ">":
		return got > want
	case ">=":
		return got >= want
	}
	return false
}
