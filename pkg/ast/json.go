package ast

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSON decoding of analysis input trees. The front end (or a test, or
// the ultrascript-scopes tool) serializes the AST as nested objects
// with a "kind" discriminator; this decoder rebuilds the tree in an
// Arena. It is a construction convenience, not a parser.
//
// Example:
//
//	{"kind": "program", "body": [
//	  {"kind": "var", "decl": "let", "name": "x", "type": "int64"},
//	  {"kind": "expr", "value": {"kind": "function", "name": "f",
//	    "params": [], "body": {"kind": "block", "body": [
//	      {"kind": "expr", "value": {"kind": "ident", "name": "x"}}]}}}]}

// DecodeJSON reads a JSON-encoded AST from r, allocating nodes in arena.
func DecodeJSON(r io.Reader, arena *Arena) (*Program, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding AST JSON: %w", err)
	}
	d := &jsonDecoder{arena: arena}
	return d.program(raw)
}

type jsonDecoder struct {
	arena *Arena
}

func (d *jsonDecoder) program(raw map[string]interface{}) (*Program, error) {
	if kind, _ := raw["kind"].(string); kind != "program" {
		return nil, fmt.Errorf("root node must have kind \"program\", got %q", raw["kind"])
	}
	stmts, err := d.stmtList(raw["body"])
	if err != nil {
		return nil, err
	}
	return &Program{Stmts: stmts}, nil
}

func (d *jsonDecoder) stmtList(v interface{}) ([]Stmt, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("statement list must be an array, got %T", v)
	}
	stmts := make([]Stmt, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("statement must be an object, got %T", item)
		}
		s, err := d.stmt(obj)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (d *jsonDecoder) stmt(raw map[string]interface{}) (Stmt, error) {
	kind, _ := raw["kind"].(string)
	switch kind {
	case "var":
		vd := d.arena.NewVarDecl()
		vd.Name, _ = raw["name"].(string)
		if vd.Name == "" {
			return nil, fmt.Errorf("var declaration missing name")
		}
		vd.TypeTag, _ = raw["type"].(string)
		vd.Kind = declKind(raw["decl"])
		vd.Line = line(raw)
		if raw["value"] != nil {
			v, err := d.exprField(raw, "value")
			if err != nil {
				return nil, err
			}
			vd.Value = v
		}
		return vd, nil
	case "return":
		rs := d.arena.NewReturnStmt()
		rs.Line = line(raw)
		if raw["value"] != nil {
			v, err := d.exprField(raw, "value")
			if err != nil {
				return nil, err
			}
			rs.Value = v
		}
		return rs, nil
	case "expr":
		es := d.arena.NewExprStmt()
		es.Line = line(raw)
		v, err := d.exprField(raw, "value")
		if err != nil {
			return nil, err
		}
		es.Value = v
		return es, nil
	case "block":
		return d.block(raw)
	case "if":
		is := d.arena.NewIfStmt()
		is.Line = line(raw)
		cond, err := d.exprField(raw, "cond")
		if err != nil {
			return nil, err
		}
		is.Cond = cond
		then, err := d.blockField(raw, "then")
		if err != nil {
			return nil, err
		}
		is.Then = then
		if raw["else"] != nil {
			obj, ok := raw["else"].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("if else branch must be an object")
			}
			els, err := d.stmt(obj)
			if err != nil {
				return nil, err
			}
			is.Else = els
		}
		return is, nil
	case "for":
		fs := d.arena.NewForStmt()
		fs.Line = line(raw)
		if raw["init"] != nil {
			obj, ok := raw["init"].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("for init must be an object")
			}
			init, err := d.stmt(obj)
			if err != nil {
				return nil, err
			}
			fs.Init = init
		}
		if raw["cond"] != nil {
			cond, err := d.exprField(raw, "cond")
			if err != nil {
				return nil, err
			}
			fs.Cond = cond
		}
		if raw["post"] != nil {
			obj, ok := raw["post"].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("for post must be an object")
			}
			post, err := d.stmt(obj)
			if err != nil {
				return nil, err
			}
			fs.Post = post
		}
		body, err := d.blockField(raw, "body")
		if err != nil {
			return nil, err
		}
		fs.Body = body
		return fs, nil
	case "go":
		gs := d.arena.NewGoStmt()
		gs.Line = line(raw)
		fn, err := d.exprField(raw, "fn")
		if err != nil {
			return nil, err
		}
		gs.Fn = fn
		return gs, nil
	default:
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}
}

func (d *jsonDecoder) block(raw map[string]interface{}) (*BlockStmt, error) {
	if kind, _ := raw["kind"].(string); kind != "block" {
		return nil, fmt.Errorf("expected block node, got kind %q", raw["kind"])
	}
	bs := d.arena.NewBlockStmt()
	stmts, err := d.stmtList(raw["body"])
	if err != nil {
		return nil, err
	}
	bs.Stmts = stmts
	return bs, nil
}

func (d *jsonDecoder) blockField(raw map[string]interface{}, field string) (*BlockStmt, error) {
	obj, ok := raw[field].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or malformed %q block", field)
	}
	return d.block(obj)
}

func (d *jsonDecoder) exprField(raw map[string]interface{}, field string) (Expr, error) {
	obj, ok := raw[field].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or malformed %q expression", field)
	}
	return d.expr(obj)
}

func (d *jsonDecoder) expr(raw map[string]interface{}) (Expr, error) {
	kind, _ := raw["kind"].(string)
	switch kind {
	case "ident":
		id := d.arena.NewIdentifier()
		id.Name, _ = raw["name"].(string)
		id.Line = line(raw)
		if id.Name == "" {
			return nil, fmt.Errorf("ident node missing name")
		}
		return id, nil
	case "number":
		nl := d.arena.NewNumberLit()
		nl.Value, _ = raw["value"].(float64)
		return nl, nil
	case "string":
		sl := d.arena.NewStringLit()
		sl.Value, _ = raw["value"].(string)
		return sl, nil
	case "bool":
		bl := d.arena.NewBooleanLit()
		bl.Value, _ = raw["value"].(bool)
		return bl, nil
	case "assign":
		ae := d.arena.NewAssignExpr()
		ae.Target, _ = raw["target"].(string)
		ae.Line = line(raw)
		if ae.Target == "" {
			return nil, fmt.Errorf("assign node missing target")
		}
		v, err := d.exprField(raw, "value")
		if err != nil {
			return nil, err
		}
		ae.Value = v
		return ae, nil
	case "binary":
		be := d.arena.NewBinaryExpr()
		be.Op, _ = raw["op"].(string)
		left, err := d.exprField(raw, "left")
		if err != nil {
			return nil, err
		}
		right, err := d.exprField(raw, "right")
		if err != nil {
			return nil, err
		}
		be.Left, be.Right = left, right
		return be, nil
	case "unary":
		ue := d.arena.NewUnaryExpr()
		ue.Op, _ = raw["op"].(string)
		operand, err := d.exprField(raw, "operand")
		if err != nil {
			return nil, err
		}
		ue.Operand = operand
		return ue, nil
	case "call":
		ce := d.arena.NewCallExpr()
		ce.Line = line(raw)
		callee, err := d.exprField(raw, "callee")
		if err != nil {
			return nil, err
		}
		ce.Callee = callee
		if raw["args"] != nil {
			list, ok := raw["args"].([]interface{})
			if !ok {
				return nil, fmt.Errorf("call args must be an array")
			}
			for _, item := range list {
				obj, ok := item.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("call argument must be an object")
				}
				arg, err := d.expr(obj)
				if err != nil {
					return nil, err
				}
				ce.Args = append(ce.Args, arg)
			}
		}
		return ce, nil
	case "member":
		me := d.arena.NewMemberExpr()
		me.Property, _ = raw["property"].(string)
		obj, err := d.exprField(raw, "object")
		if err != nil {
			return nil, err
		}
		me.Object = obj
		return me, nil
	case "function":
		fl := d.arena.NewFunctionLit()
		fl.Name, _ = raw["name"].(string)
		fl.Line = line(raw)
		if raw["params"] != nil {
			list, ok := raw["params"].([]interface{})
			if !ok {
				return nil, fmt.Errorf("function params must be an array")
			}
			for _, item := range list {
				obj, ok := item.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("function param must be an object")
				}
				name, _ := obj["name"].(string)
				if name == "" {
					return nil, fmt.Errorf("function param missing name")
				}
				tag, _ := obj["type"].(string)
				fl.Params = append(fl.Params, Param{Name: name, TypeTag: tag})
			}
		}
		body, err := d.blockField(raw, "body")
		if err != nil {
			return nil, err
		}
		fl.Body = body
		return fl, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", kind)
	}
}

func declKind(v interface{}) DeclKind {
	switch v {
	case "let":
		return DeclLet
	case "const":
		return DeclConst
	default:
		return DeclVar
	}
}

func line(raw map[string]interface{}) int {
	if f, ok := raw["line"].(float64); ok {
		return int(f)
	}
	return 0
}
