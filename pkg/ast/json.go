package ast

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// jsonNode is the upstream parser's wire shape: a "type" discriminator
// plus kind-specific fields. "arg" is either a single node, a node
// list, or absent depending on the kind.
type jsonNode struct {
	Type       string          `json:"type"`
	Value      string          `json:"value,omitempty"`
	Name       string          `json:"name,omitempty"`
	Ident      string          `json:"ident,omitempty"`
	Line       string          `json:"line,omitempty"`
	VarName    string          `json:"varname,omitempty"`
	Arg        json.RawMessage `json:"arg,omitempty"`
	Condition  *jsonNode       `json:"condition,omitempty"`
	ThenBranch *jsonNode       `json:"thenbranch,omitempty"`
	ElseBranch *jsonNode       `json:"elsebranch,omitempty"`
	Expression *jsonNode       `json:"expression,omitempty"`
	Statements json.RawMessage `json:"statements,omitempty"`
}

// DecodeJSON converts the external LALR parser's JSON node tree into a
// typed Program. Unrecognized node kinds decode to UnknownNode rather
// than failing, so evaluation can flag them as diagnostics.
func DecodeJSON(data []byte) (*Program, error) {
	var root jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("ast: invalid node tree: %w", err)
	}
	if root.Type != "STATEMENTBLOCK" {
		return nil, fmt.Errorf("ast: root node must be STATEMENTBLOCK, got %q", root.Type)
	}
	block, err := decodeBlock(&root)
	if err != nil {
		return nil, err
	}
	return &Program{Block: block}, nil
}

func decodeBlock(n *jsonNode) (*StatementBlock, error) {
	var children []jsonNode
	if len(n.Statements) > 0 {
		if err := json.Unmarshal(n.Statements, &children); err != nil {
			return nil, fmt.Errorf("ast: STATEMENTBLOCK statements: %w", err)
		}
	}
	block := &StatementBlock{}
	for i := range children {
		stmt, err := decodeStmt(&children[i])
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, nil
}

func decodeStmt(n *jsonNode) (Stmt, error) {
	switch n.Type {
	case "STATEMENTBLOCK":
		return decodeBlock(n)

	case "WRITE":
		arg, err := decodeArgSingle(n)
		if err != nil {
			return nil, err
		}
		return &WriteStmt{Arg: arg}, nil

	case "TRACE":
		arg, err := decodeArgSingle(n)
		if err != nil {
			return nil, err
		}
		line, _ := strconv.Atoi(n.Line)
		return &TraceStmt{Line: line, Arg: arg}, nil

	case "ASSIGN":
		arg, err := decodeArgSingle(n)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Ident: n.Ident, Arg: arg}, nil

	case "TIMEASSIGN":
		arg, err := decodeArgSingle(n)
		if err != nil {
			return nil, err
		}
		return &TimeAssignStmt{Ident: n.Ident, Arg: arg}, nil

	case "IF":
		cond, err := decodeExprNode(n.Condition)
		if err != nil {
			return nil, err
		}
		thenB, err := decodeBranch(n.ThenBranch)
		if err != nil {
			return nil, err
		}
		elseB, err := decodeBranch(n.ElseBranch)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Then: thenB, Else: elseB}, nil

	case "FOR":
		expr, err := decodeExprNode(n.Expression)
		if err != nil {
			return nil, err
		}
		var bodyNode jsonNode
		if err := json.Unmarshal(n.Statements, &bodyNode); err != nil {
			return nil, fmt.Errorf("ast: FOR statements: %w", err)
		}
		body, err := decodeBlock(&bodyNode)
		if err != nil {
			return nil, err
		}
		return &ForStmt{VarName: n.VarName, Expression: expr, Body: body}, nil
	}

	// Not a statement kind. Decode it anyway so malformed operands
	// still error, then keep only what can stand as a statement:
	// UnknownNode is the sole kind valid in both positions, so an
	// expression here degrades to an UnknownNode the evaluator
	// reports as a diagnostic.
	expr, err := decodeExprNode(n)
	if err != nil {
		return nil, err
	}
	if stmt, ok := expr.(Stmt); ok {
		return stmt, nil
	}
	return &UnknownNode{TypeName: n.Type}, nil
}

// decodeBranch allows an IF branch to be absent, a STATEMENTBLOCK, or a
// single bare statement (older upstream emitters do the latter).
func decodeBranch(n *jsonNode) (*StatementBlock, error) {
	if n == nil {
		return &StatementBlock{}, nil
	}
	if n.Type == "STATEMENTBLOCK" {
		return decodeBlock(n)
	}
	stmt, err := decodeStmt(n)
	if err != nil {
		return nil, err
	}
	return &StatementBlock{Statements: []Stmt{stmt}}, nil
}

// decodeExprNode decodes an expression node; anything that is neither a
// known expression nor statement kind becomes an UnknownNode.
func decodeExprNode(n *jsonNode) (Expr, error) {
	if n == nil {
		return &NullLiteral{}, nil
	}
	switch n.Type {
	case "NUMTOKEN":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("ast: NUMTOKEN value %q: %w", n.Value, err)
		}
		return &NumberLiteral{Value: v}, nil

	case "STRTOKEN":
		return &StringLiteral{Value: n.Value}, nil

	case "TIMETOKEN":
		h, m, s, err := ParseTimeOfDay(n.Value)
		if err != nil {
			return nil, err
		}
		return &TimeLiteral{Hour: h, Minute: m, Second: s}, nil

	case "TRUE":
		return &BoolLiteral{Value: true}, nil
	case "FALSE":
		return &BoolLiteral{Value: false}, nil
	case "NULL":
		return &NullLiteral{}, nil
	case "NOW":
		return &NowExpr{}, nil
	case "CURRENTTIME":
		return &CurrentTimeExpr{}, nil

	case "VARIABLE":
		return &VariableExpr{Name: n.Name}, nil

	case "LIST":
		args, err := decodeArgList(n)
		if err != nil {
			return nil, err
		}
		return &ListExpr{Items: args}, nil
	}

	if op := OpKind(n.Type); opArity(op) > 0 {
		args, err := decodeOpArgs(n, opArity(op))
		if err != nil {
			return nil, err
		}
		switch opArity(op) {
		case 1:
			return &UnaryExpr{Op: op, Arg: args[0]}, nil
		case 2:
			return &BinaryExpr{Op: op, Left: args[0], Right: args[1]}, nil
		case 3:
			return &TernaryExpr{Op: op, A: args[0], B: args[1], C: args[2]}, nil
		}
	}

	return &UnknownNode{TypeName: n.Type}, nil
}

func opArity(op OpKind) int {
	switch op {
	case OpUnminus, OpSqrt, OpUppercase, OpIsNumber, OpIsList,
		OpMaximum, OpMinimum, OpAverage, OpCount, OpSum,
		OpFirst, OpLast, OpIncrease, OpTime:
		return 1
	case OpPlus, OpMinus, OpTimes, OpDivide, OpPower, OpAmpersand, OpRange:
		return 2
	case OpIsWithin, OpIsNotWithin:
		return 3
	}
	return 0
}

// decodeArgSingle reads "arg" as one node.
func decodeArgSingle(n *jsonNode) (Expr, error) {
	var child jsonNode
	if err := json.Unmarshal(n.Arg, &child); err != nil {
		return nil, fmt.Errorf("ast: %s arg: %w", n.Type, err)
	}
	return decodeExprNode(&child)
}

// decodeArgList reads "arg" as a node list.
func decodeArgList(n *jsonNode) ([]Expr, error) {
	var children []jsonNode
	if len(n.Arg) > 0 {
		if err := json.Unmarshal(n.Arg, &children); err != nil {
			return nil, fmt.Errorf("ast: %s arg list: %w", n.Type, err)
		}
	}
	exprs := make([]Expr, 0, len(children))
	for i := range children {
		e, err := decodeExprNode(&children[i])
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// decodeOpArgs reads "arg" as either a single node (unary) or a list of
// exactly want nodes.
func decodeOpArgs(n *jsonNode, want int) ([]Expr, error) {
	if want == 1 {
		e, err := decodeArgSingle(n)
		if err != nil {
			return nil, err
		}
		return []Expr{e}, nil
	}
	args, err := decodeArgList(n)
	if err != nil {
		return nil, err
	}
	if len(args) != want {
		return nil, fmt.Errorf("ast: %s expects %d operands, got %d", n.Type, want, len(args))
	}
	return args, nil
}

// ParseTimeOfDay parses H:MM or H:MM:SS.
func ParseTimeOfDay(text string) (hour, minute, second int, err error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("ast: invalid time literal %q", text)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("ast: invalid time literal %q", text)
		}
		nums[i] = v
	}
	hour, minute = nums[0], nums[1]
	if len(nums) == 3 {
		second = nums[2]
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, 0, 0, fmt.Errorf("ast: time literal %q out of range", text)
	}
	return hour, minute, second, nil
}

// EncodeJSON renders a Program back into the upstream wire shape,
// matching what the external parser would have produced for the same
// source. Used by the CLI's ast command and the decode round-trip tests.
func EncodeJSON(p *Program) ([]byte, error) {
	return json.MarshalIndent(encodeNode(p.Block), "", "  ")
}

func encodeNode(n Node) map[string]any {
	switch node := n.(type) {
	case *StatementBlock:
		stmts := make([]any, len(node.Statements))
		for i, s := range node.Statements {
			stmts[i] = encodeNode(s)
		}
		return map[string]any{"type": "STATEMENTBLOCK", "statements": stmts}
	case *WriteStmt:
		return map[string]any{"type": "WRITE", "arg": encodeNode(node.Arg)}
	case *TraceStmt:
		return map[string]any{"type": "TRACE", "line": strconv.Itoa(node.Line), "arg": encodeNode(node.Arg)}
	case *AssignStmt:
		return map[string]any{"type": "ASSIGN", "ident": node.Ident, "arg": encodeNode(node.Arg)}
	case *TimeAssignStmt:
		return map[string]any{"type": "TIMEASSIGN", "ident": node.Ident, "arg": encodeNode(node.Arg)}
	case *IfStmt:
		out := map[string]any{
			"type":       "IF",
			"condition":  encodeNode(node.Cond),
			"thenbranch": encodeNode(node.Then),
		}
		if node.Else != nil {
			out["elsebranch"] = encodeNode(node.Else)
		}
		return out
	case *ForStmt:
		return map[string]any{
			"type":       "FOR",
			"varname":    node.VarName,
			"expression": encodeNode(node.Expression),
			"statements": encodeNode(node.Body),
		}
	case *NumberLiteral:
		return map[string]any{"type": "NUMTOKEN", "value": strconv.FormatFloat(node.Value, 'f', -1, 64)}
	case *StringLiteral:
		return map[string]any{"type": "STRTOKEN", "value": node.Value}
	case *TimeLiteral:
		return map[string]any{"type": "TIMETOKEN", "value": fmt.Sprintf("%02d:%02d:%02d", node.Hour, node.Minute, node.Second)}
	case *BoolLiteral, *NullLiteral, *NowExpr, *CurrentTimeExpr:
		return map[string]any{"type": n.Kind()}
	case *VariableExpr:
		return map[string]any{"type": "VARIABLE", "name": node.Name}
	case *ListExpr:
		items := make([]any, len(node.Items))
		for i, e := range node.Items {
			items[i] = encodeNode(e)
		}
		return map[string]any{"type": "LIST", "arg": items}
	case *UnaryExpr:
		return map[string]any{"type": n.Kind(), "arg": encodeNode(node.Arg)}
	case *BinaryExpr:
		return map[string]any{"type": n.Kind(), "arg": []any{encodeNode(node.Left), encodeNode(node.Right)}}
	case *TernaryExpr:
		return map[string]any{"type": n.Kind(), "arg": []any{encodeNode(node.A), encodeNode(node.B), encodeNode(node.C)}}
	case *UnknownNode:
		return map[string]any{"type": node.TypeName}
	}
	return map[string]any{"type": n.Kind()}
}
