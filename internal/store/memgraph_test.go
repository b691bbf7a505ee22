package store

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/driver"
)

func TestMemgraphBackend_Load(t *testing.T) {
	mockDriver := &MockDriver{
		MockResult: neo4j.EagerResult{
			Records: []*neo4j.Record{
				{
					Keys: []string{"props"},
					Values: []interface{}{map[string]interface{}{
						"collection": "nodes",
						"position":   int64(0),
						"id":         "root_me",
						"name":       "Me",
					}},
				},
			},
		},
	}
	b := NewMemgraphBackend(context.Background(), mockDriver, zap.NewNop())

	got, err := b.Load(context.Background(), Nodes)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Record{"id": "root_me", "name": "Me"}, got[0])
	assert.Equal(t, driver.LoadCollectionQuery, mockDriver.Queries[0])
	assert.Equal(t, "nodes", mockDriver.QueryParams[0]["collection"])
}

func TestMemgraphBackend_LoadMalformed(t *testing.T) {
	mockDriver := &MockDriver{
		MockResult: neo4j.EagerResult{
			Records: []*neo4j.Record{
				{Keys: []string{"props"}, Values: []interface{}{"garbage"}},
			},
		},
	}
	b := NewMemgraphBackend(context.Background(), mockDriver, zap.NewNop())

	got, err := b.Load(context.Background(), Edges)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemgraphBackend_Save(t *testing.T) {
	mockDriver := &MockDriver{}
	b := NewMemgraphBackend(context.Background(), mockDriver, zap.NewNop())

	err := b.Save(context.Background(), Edges, []Record{
		{"source": "alice", "target": "bob", "weight": 1},
		{"source": "bob", "target": "carol", "relation_type": nil},
	})
	require.NoError(t, err)

	assert.Equal(t, driver.ReplaceCollectionQuery, mockDriver.Queries[0])
	params := mockDriver.QueryParams[0]
	assert.Equal(t, "edges", params["collection"])

	rows := params["records"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	second := rows[1].(map[string]interface{})
	assert.Equal(t, int64(0), first["position"])
	assert.Equal(t, int64(1), second["position"])
	// null properties are not written
	_, hasNil := second["relation_type"]
	assert.False(t, hasNil)
}

func TestMemgraphBackend_SaveError(t *testing.T) {
	mockDriver := &MockDriver{Err: errors.New("connection reset")}
	b := NewMemgraphBackend(context.Background(), mockDriver, zap.NewNop())

	err := b.Save(context.Background(), Events, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save events")
}
