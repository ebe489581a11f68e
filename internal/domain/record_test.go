package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRecordDecode(t *testing.T) {
	t.Run("restores graph and selection", func(t *testing.T) {
		g := NewGraph()
		r1, _ := g.AddEdge("A", "B", 4, "")
		sel := NewSelection()
		sel.ToggleMode(ModeStart)
		sel.Click(r1.SourceID)
		sel.ToggleMode(ModeGoal)
		sel.Click(r1.TargetID)

		rec := NewRecord(g, sel)
		g2, sel2, err := rec.Decode()
		require.NoError(t, err)

		assert.Equal(t, g.Nodes(), g2.Nodes())
		assert.Equal(t, g.Counter(), g2.Counter())
		assert.Equal(t, r1.SourceID, sel2.Start())
		assert.Equal(t, []string{r1.TargetID}, sel2.Goals())
		assert.Equal(t, ModeNone, sel2.Mode())
	})

	t.Run("unknown start node is malformed", func(t *testing.T) {
		rec := Record{
			Nodes:       map[string]Node{"node_0": {ID: "node_0", Label: "A"}},
			NodeCounter: 1,
			StartNode:   strPtr("node_9"),
		}
		_, _, err := rec.Decode()
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("unknown goal node is malformed", func(t *testing.T) {
		rec := Record{
			Nodes:       map[string]Node{"node_0": {ID: "node_0", Label: "A"}},
			NodeCounter: 1,
			GoalNodes:   []string{"node_0", "node_4"},
		}
		assert.ErrorIs(t, rec.Validate(), ErrMalformedRecord)
	})

	t.Run("decodes the stored json shape", func(t *testing.T) {
		raw := `{
			"nodes": {
				"node_0": {"id": "node_0", "value": "A", "neighbors": {"node_1": 4}},
				"node_1": {"id": "node_1", "value": "B", "neighbors": {}}
			},
			"nodeCounter": 2,
			"startNode": "node_0",
			"goalNodes": ["node_1"]
		}`
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(raw), &rec))

		g, sel, err := rec.Decode()
		require.NoError(t, err)
		assert.Equal(t, 2, g.Len())
		assert.Equal(t, "node_0", sel.Start())
		assert.True(t, sel.IsGoal("node_1"))
	})
}

func TestRecordClone(t *testing.T) {
	rec := Record{
		Nodes: map[string]Node{
			"node_0": {ID: "node_0", Label: "A", Neighbors: map[string]float64{"node_1": 1}},
			"node_1": {ID: "node_1", Label: "B", Neighbors: map[string]float64{}},
		},
		NodeCounter: 2,
		StartNode:   strPtr("node_0"),
		GoalNodes:   []string{"node_1"},
	}

	c := rec.Clone()
	require.True(t, c.Equal(rec))

	c.Nodes["node_0"].Neighbors["node_0"] = 9
	*c.StartNode = "node_1"
	c.GoalNodes[0] = "node_0"

	assert.Len(t, rec.Nodes["node_0"].Neighbors, 1)
	assert.Equal(t, "node_0", rec.Start())
	assert.Equal(t, []string{"node_1"}, rec.GoalNodes)
	assert.False(t, c.Equal(rec))
}

func TestNewRecordEmpty(t *testing.T) {
	rec := NewRecord(NewGraph(), NewSelection())

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":{},"nodeCounter":0,"startNode":null,"goalNodes":[]}`, string(data))
}
