package cli

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ucsboard/internal/domain"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{
  "nodes": {
    "node_0": {"id": "node_0", "value": "A", "neighbors": {"node_1": 4, "node_2": 2}},
    "node_1": {"id": "node_1", "value": "B", "neighbors": {}},
    "node_2": {"id": "node_2", "value": "C", "neighbors": {}}
  },
  "nodeCounter": 3,
  "startNode": "node_0",
  "goalNodes": ["node_2"]
}`

const sampleResponse = `{"results": [{
  "path": [{"id": "node_0", "value": "A"}, {"id": "node_2", "value": "C"}],
  "cost": 2,
  "steps": [
    {"current_node": "node_0", "current_cost": 0, "current_path": ["node_0"],
     "frontier": [[2, ["node_0", "node_2"]], [4, ["node_0", "node_1"]]], "explored": ["node_0"]},
    {"current_node": "node_2", "current_cost": 2, "current_path": ["node_0", "node_2"],
     "frontier": [[4, ["node_0", "node_1"]]], "explored": ["node_0", "node_2"]}
  ]
}]}`

type cliEnv struct {
	dir    string
	config string
	db     string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	cfg := filepath.Join(dir, "ucsboard.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0644))

	return &cliEnv{dir: dir, config: cfg, db: filepath.Join(dir, "trees.db")}
}

func (e *cliEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// ============================================================================
// Saved Trees
// ============================================================================

func TestTreesLifecycle(t *testing.T) {
	env := newCLIEnv(t)
	file := env.writeFile(t, "demo.json", sampleRecord)

	out, err := env.run(t, "trees", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved trees.")

	out, err = env.run(t, "trees", "import", file, "--name", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved demo (3 nodes)")

	out, err = env.run(t, "trees", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "demo")

	out, err = env.run(t, "trees", "show", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "demo (3 nodes, 1 goals)")
	assert.Contains(t, out, "▶ A")
	assert.Contains(t, out, "├── B (4)")
	assert.Contains(t, out, "└── ◎ C (2)")

	out, err = env.run(t, "trees", "export", "demo", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "nodeCounter: 3")

	exported := filepath.Join(env.dir, "copy.json")
	_, err = env.run(t, "trees", "export", "demo", "-o", exported)
	require.NoError(t, err)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nodeCounter"`)

	out, err = env.run(t, "trees", "delete", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted demo")

	_, err = env.run(t, "trees", "show", "demo")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTreesImportRejectsInvalidRecord(t *testing.T) {
	env := newCLIEnv(t)
	file := env.writeFile(t, "bad.json", `{"nodes": {"node_0": {"id": "node_0", "value": "A", "neighbors": {"node_9": 1}}}, "nodeCounter": 1}`)

	_, err := env.run(t, "trees", "import", file, "--name", "bad")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)

	out, err := env.run(t, "trees", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved trees.")
}

func TestTreesImportRequiresName(t *testing.T) {
	env := newCLIEnv(t)
	file := env.writeFile(t, "demo.json", sampleRecord)

	_, err := env.run(t, "trees", "import", file)
	assert.Error(t, err)
}

// ============================================================================
// Replay
// ============================================================================

func TestReplayCommand(t *testing.T) {
	env := newCLIEnv(t)
	file := env.writeFile(t, "response.json", sampleResponse)

	out, err := env.run(t, "replay", file)
	require.NoError(t, err)

	assert.Contains(t, out, "step 1/2")
	assert.Contains(t, out, "frontier: [2 node_0>node_2] [4 node_0>node_1]")
	assert.Contains(t, out, "step 2/2")
	assert.Contains(t, out, "explored: node_0, node_2")
	assert.Contains(t, out, "finished after 2 steps")
	assert.Contains(t, out, "best path: A → C")
	assert.Less(t, strings.Index(out, "step 1/2"), strings.Index(out, "step 2/2"))
}

func TestReplayCommandEdgeCases(t *testing.T) {
	env := newCLIEnv(t)

	empty := env.writeFile(t, "empty.json", `{"results": []}`)
	out, err := env.run(t, "replay", empty)
	require.NoError(t, err)
	assert.Contains(t, out, "No path")

	broken := env.writeFile(t, "broken.json", `{"results": [`)
	_, err = env.run(t, "replay", broken)
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)

	full := env.writeFile(t, "response.json", sampleResponse)
	_, err = env.run(t, "replay", full, "--result", "3")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ============================================================================
// Serve
// ============================================================================

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServe(t *testing.T) {
	env := newCLIEnv(t)
	addr := freeAddr(t)
	watched := env.writeFile(t, "live.json", sampleRecord)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", env.config, "--db", env.db, "serve", "--addr", addr, "--watch", watched})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	base := fmt.Sprintf("http://%s", addr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	// the watched file was imported at startup
	resp, err := http.Get(base + "/api/tree")
	require.NoError(t, err)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), `"nodes":3`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
