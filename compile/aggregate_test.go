// Copyright (c) HashiCorp, Inc.

package compile_test

import (
	"testing"

	"github.com/hashicorp/go-sdql/ast"
	"github.com/hashicorp/go-sdql/compile"
	"github.com/hashicorp/go-sdql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersAggConfig() schema.Config {
	return schema.New(schema.Config{
		Dialect: "postgresql",
		Tables: map[string]schema.TableConfig{
			"orders": {AllowedFields: []schema.Field{
				{Name: "id", Type: schema.TypeUUID},
				{Name: "user_id", Type: schema.TypeUUID},
				{Name: "total", Type: schema.TypeNumber},
			}},
		},
	})
}

func TestBuildAggregation_countStarWithGroupBy(t *testing.T) {
	cfg := ordersAggConfig()
	s := newState(t, cfg, "orders")

	q := ast.AggregationQuery{
		Table:   "orders",
		GroupBy: []string{"orders.user_id"},
		AggregatedFields: map[string]ast.AggregatedField{
			"order_count": {Operator: ast.AggCount, Star: true},
		},
	}
	res, err := compile.BuildAggregation(s, q)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT orders.user_id, COUNT(*) AS "order_count" FROM orders GROUP BY orders.user_id`,
		res.SQL)
}

func TestBuildAggregation_rejectsStarOnNonCount(t *testing.T) {
	cfg := ordersAggConfig()
	s := newState(t, cfg, "orders")

	q := ast.AggregationQuery{
		Table: "orders",
		AggregatedFields: map[string]ast.AggregatedField{
			"total_sum": {Operator: ast.AggSum, Star: true},
		},
	}
	_, err := compile.BuildAggregation(s, q)
	require.Error(t, err)
}

func TestBuildAggregation_emptyAggregatedFieldsRejected(t *testing.T) {
	cfg := ordersAggConfig()
	s := newState(t, cfg, "orders")

	_, err := compile.BuildAggregation(s, ast.AggregationQuery{Table: "orders"})
	require.Error(t, err)
}

func TestBuildAggregation_sumOverField(t *testing.T) {
	cfg := ordersAggConfig()
	s := newState(t, cfg, "orders")

	q := ast.AggregationQuery{
		Table: "orders",
		AggregatedFields: map[string]ast.AggregatedField{
			"revenue": {Operator: ast.AggSum, Field: "orders.total"},
		},
	}
	res, err := compile.BuildAggregation(s, q)
	require.NoError(t, err)
	assert.Equal(t, `SELECT SUM(orders.total) AS "revenue" FROM orders`, res.SQL)
}
