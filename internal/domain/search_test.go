package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchResponseDecode(t *testing.T) {
	raw := `{"results": [{
		"path": [{"id": "node_0", "value": "A"}, {"id": "node_2", "value": "C"}],
		"cost": 2,
		"steps": [
			{"current_node": "node_0", "frontier": [[0, ["node_0"]]], "explored": [], "current_path": ["node_0"], "current_cost": 0},
			{"current_node": "node_2", "frontier": [[2, ["node_0", "node_2"]], [4, ["node_0", "node_1"]]], "explored": ["node_0"], "current_path": ["node_0", "node_2"], "current_cost": 2}
		]
	}]}`

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.Len(t, resp.Results, 1)

	res := resp.Results[0]
	assert.Equal(t, 2.0, res.Cost)
	assert.Equal(t, "C", res.Path[1].Label)
	require.Len(t, res.Steps, 2)

	step := res.Steps[1]
	assert.Equal(t, "node_2", step.CurrentNode)
	assert.Equal(t, []string{"node_0"}, step.Explored)
	require.Len(t, step.Frontier, 2)
	assert.Equal(t, FrontierEntry{Cost: 4, Path: []string{"node_0", "node_1"}}, step.Frontier[1])
}

func TestFrontierEntryJSON(t *testing.T) {
	data, err := json.Marshal(FrontierEntry{Cost: 1.5})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, []]`, string(data))

	var f FrontierEntry
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &f))
	assert.Error(t, json.Unmarshal([]byte(`{"cost": 1}`), &f))
}

func TestNewSearchRequest(t *testing.T) {
	g := NewGraph()
	r1, _ := g.AddEdge("A", "B", 4, "")

	t.Run("requires a start node", func(t *testing.T) {
		sel := NewSelection()
		sel.ToggleMode(ModeGoal)
		sel.Click(r1.TargetID)

		_, err := NewSearchRequest(NewRecord(g, sel))
		assert.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("requires a goal", func(t *testing.T) {
		sel := NewSelection()
		sel.ToggleMode(ModeStart)
		sel.Click(r1.SourceID)

		_, err := NewSearchRequest(NewRecord(g, sel))
		assert.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("carries graph start and goals", func(t *testing.T) {
		sel := NewSelection()
		sel.ToggleMode(ModeStart)
		sel.Click(r1.SourceID)
		sel.ToggleMode(ModeGoal)
		sel.Click(r1.TargetID)

		req, err := NewSearchRequest(NewRecord(g, sel))
		require.NoError(t, err)

		data, err := json.Marshal(req)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"graph": {
				"node_0": {"id": "node_0", "value": "A", "neighbors": {"node_1": 4}},
				"node_1": {"id": "node_1", "value": "B", "neighbors": {}}
			},
			"startNode": "node_0",
			"goalNodes": ["node_1"]
		}`, string(data))
	})
}
