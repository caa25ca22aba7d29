package dedupe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erraggy/wsdedupe/depgraph"
	"github.com/erraggy/wsdedupe/internal/testutil"
)

const fixturePath = "../testdata/workspace-state.yaml"

func loadFixture(t *testing.T) *depgraph.State {
	t.Helper()
	state, err := depgraph.LoadState(fixturePath)
	require.NoError(t, err)
	return state
}

func projectsByID(t *testing.T, state *depgraph.State, ids ...depgraph.ProjectID) []*depgraph.Project {
	t.Helper()
	out := make([]*depgraph.Project, 0, len(ids))
	for _, id := range ids {
		p := state.Project(id)
		require.NotNil(t, p, "project %s", id)
		out = append(out, p)
	}
	return out
}

// appWorkspace is the "app depends on lib" workspace used across tests.
// lib depends on is-positive and has a development-only typescript.
func appWorkspace() *testutil.Workspace {
	return testutil.NewWorkspace("/repo", true,
		&testutil.Manifest{
			ID: "packages/app", Name: "app", Version: "1.0.0",
			Dependencies: map[string]string{"lib": "workspace:*", "is-negative": "1.0.0"},
		},
		&testutil.Manifest{
			ID: "packages/lib", Name: "lib", Version: "1.0.0",
			Dependencies:    map[string]string{"is-positive": "1.0.0"},
			DevDependencies: map[string]string{"typescript": "5.0.0"},
		},
	)
}
