//go:build !highs

package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lpbridge/pkg/model"
)

func TestHighsStubRegisteredButUnavailable(t *testing.T) {
	be, err := Lookup("highs")
	require.NoError(t, err)
	require.False(t, be.Available())
	require.False(t, be.SupportsResolve())
}

func TestHighsStubSolveFailsAsUnavailable(t *testing.T) {
	be, err := Lookup("highs")
	require.NoError(t, err)

	m := model.New("t")
	_, err = m.NewVariable("x", model.Integer, 0, 1)
	require.NoError(t, err)
	m.SetObjective(model.Objective{FeasibilityOnly: true})

	_, err = NewFacade(be, DefaultOptions()).Solve(m)
	require.Error(t, err)
	require.True(t, IsUnavailable(err))
}
