// Copyright (c) HashiCorp, Inc.

package compile

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/dialect"
	"github.com/hashicorp/go-sdql/errs"
	"github.com/hashicorp/go-sdql/schema"
)

// castToText functions differ per dialect for CONCAT's eager non-text cast
// policy (spec §4.3, Open Question resolved in favor of the eager variant).
func castToText(ops dialect.Ops, frag string, typ schema.SemanticType) string {
	if typ == schema.TypeString {
		return frag
	}
	if ops.Name() != dialect.PostgreSQL {
		return frag
	}
	return ops.Cast(frag, "TEXT")
}

// LowerExpr is spec §4.3's expression lowering: it turns an ast.Expr into a
// SQL fragment, recording the fragment's semantic type in s.Types.
func (s *State) LowerExpr(currentAlias, currentTable string, e ast.Expr) (string, schema.SemanticType, error) {
	const op = "compile.LowerExpr"

	switch v := e.(type) {
	case ast.LiteralExpr:
		frag := s.Literal(v.Value)
		typ := goValueType(v.Value)
		if err := s.Types.Record(frag, typ); err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return frag, typ, nil

	case ast.FieldExpr:
		if v.Path.IsNewRow {
			return "", "", fmt.Errorf("%s: %w", op, errs.ErrNewRowOutsideContext)
		}
		resolved, err := s.ResolveField(currentAlias, currentTable, v.Path)
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		if err := s.Types.Record(resolved.SQL, resolved.Type); err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return resolved.SQL, resolved.Type, nil

	case ast.VarExpr:
		val, ok := s.Config.Variable(v.Name)
		if !ok {
			return "", "", fmt.Errorf("%s: %w: %q", op, errs.ErrMissingRequired, v.Name)
		}
		frag := s.Literal(val)
		typ := goValueType(val)
		if err := s.Types.Record(frag, typ); err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return frag, typ, nil

	case ast.UUIDExpr:
		frag := s.Dialect.Cast(s.Literal(v.Value), "UUID")
		if err := s.Types.Record(frag, schema.TypeUUID); err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return frag, schema.TypeUUID, nil

	case ast.DateExpr:
		frag := s.Dialect.Cast(s.Literal(v.Value), "DATE")
		if err := s.Types.Record(frag, schema.TypeDate); err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return frag, schema.TypeDate, nil

	case ast.TimestampExpr:
		frag := s.Dialect.Cast(s.Literal(v.Value), "TIMESTAMP")
		if err := s.Types.Record(frag, schema.TypeDatetime); err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return frag, schema.TypeDatetime, nil

	case ast.JSONBExpr:
		b, err := json.Marshal(v.Value)
		if err != nil {
			return "", "", fmt.Errorf("%s: %w: %v", op, errs.ErrInvalidParameter, err)
		}
		lit := s.Literal(string(b))
		frag := lit
		if s.Dialect.Name() == dialect.PostgreSQL {
			frag = s.Dialect.Cast(lit, "JSONB")
		}
		if err := s.Types.Record(frag, schema.TypeObject); err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return frag, schema.TypeObject, nil

	case ast.FuncExpr:
		return s.lowerFuncExpr(currentAlias, currentTable, v)

	case ast.CondExpr:
		return s.lowerCondExpr(currentAlias, currentTable, v)

	default:
		return "", "", fmt.Errorf("%s: %w: %T", op, errs.ErrUnknownASTVariant, e)
	}
}

func (s *State) lowerFuncExpr(currentAlias, currentTable string, f ast.FuncExpr) (string, schema.SemanticType, error) {
	const op = "compile.lowerFuncExpr"

	args := make([]string, 0, len(f.Args))
	argTypes := make([]schema.SemanticType, 0, len(f.Args))
	for i, a := range f.Args {
		frag, typ, err := s.LowerExpr(currentAlias, currentTable, a)
		if err != nil {
			return "", "", fmt.Errorf("%s: argument %d of %s: %w", op, i, f.Name, err)
		}
		args = append(args, frag)
		argTypes = append(argTypes, typ)
	}

	if infixOp, ok := ast.IsBinaryInfix(f.Name); ok {
		if len(args) != 2 {
			return "", "", fmt.Errorf("%s: %w: %s takes exactly 2 arguments", op, errs.ErrInvalidParameter, f.Name)
		}
		frag := fmt.Sprintf("(%s %s %s)", args[0], infixOp, args[1])
		typ := schema.TypeNumber
		if err := s.Types.Record(frag, typ); err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return frag, typ, nil
	}

	if f.Name == ast.FuncConcat {
		for i, typ := range argTypes {
			args[i] = castToText(s.Dialect, args[i], typ)
		}
	}

	frag, err := s.Dialect.RenderFunc(string(f.Name), args)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	typ := funcResultType(f.Name)
	if err := s.Types.Record(frag, typ); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return frag, typ, nil
}

func (s *State) lowerCondExpr(currentAlias, currentTable string, c ast.CondExpr) (string, schema.SemanticType, error) {
	const op = "compile.lowerCondExpr"

	condSQL, err := s.LowerCondition(currentAlias, currentTable, c.If)
	if err != nil {
		return "", "", fmt.Errorf("%s: if: %w", op, err)
	}
	thenSQL, thenType, err := s.LowerExpr(currentAlias, currentTable, c.Then)
	if err != nil {
		return "", "", fmt.Errorf("%s: then: %w", op, err)
	}
	elseSQL, elseType, err := s.LowerExpr(currentAlias, currentTable, c.Else)
	if err != nil {
		return "", "", fmt.Errorf("%s: else: %w", op, err)
	}

	frag := fmt.Sprintf("(CASE WHEN %s THEN %s ELSE %s END)", condSQL, thenSQL, elseSQL)
	typ := schema.TypeUnknown
	if thenType == elseType {
		typ = thenType
	}
	if err := s.Types.Record(frag, typ); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return frag, typ, nil
}

// funcResultType assigns a semantic type per catalog function, per spec
// §6's function catalog groupings (arithmetic/string/temporal/data).
func funcResultType(name ast.FuncName) schema.SemanticType {
	switch name {
	case ast.FuncGreatestNumber, ast.FuncLeastNumber, ast.FuncCoalesceNumber,
		ast.FuncLength, ast.FuncExtract, ast.FuncExtractEpoch, ast.FuncDateDiff:
		return schema.TypeNumber
	case ast.FuncConcat, ast.FuncUpper, ast.FuncLower, ast.FuncSubstr,
		ast.FuncSubstring, ast.FuncCoalesceString, ast.FuncDateFormat:
		return schema.TypeString
	case ast.FuncGenRandomUUID:
		return schema.TypeUUID
	case ast.FuncJSONExtract:
		return schema.TypeUnknown
	default:
		return schema.TypeUnknown
	}
}

// goValueType maps a decoded JSON scalar to its semantic type.
func goValueType(v any) schema.SemanticType {
	switch v.(type) {
	case nil:
		return schema.TypeUnknown
	case bool:
		return schema.TypeBoolean
	case string:
		return schema.TypeString
	case float64, int:
		return schema.TypeNumber
	default:
		return schema.TypeUnknown
	}
}
