package rig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxdeck/internal/model"
)

func testOutput() *Output {
	return NewOutput(map[string]int{"1": 4, "2": 4})
}

func TestSessionsSingleton(t *testing.T) {
	output := testOutput()
	sessions := NewSessions(output)

	token, err := sessions.Start("scene-1", model.Universes{"1": {10, 20, 30, 40}})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, byte(10), output.Raw()["1"][0], "start applies the seed snapshot")

	_, err = sessions.Start("scene-2", nil)
	assert.ErrorIs(t, err, ErrSessionConflict, "second start must conflict")

	active, scene := sessions.Active()
	assert.True(t, active)
	assert.Equal(t, model.SceneID("scene-1"), scene)
}

func TestSessionsPush(t *testing.T) {
	output := testOutput()
	sessions := NewSessions(output)

	token, err := sessions.Start("scene-1", nil)
	require.NoError(t, err)

	require.NoError(t, sessions.Push(token, model.Universes{"1": {1, 2, 3, 4}}))
	assert.Equal(t, byte(4), output.Raw()["1"][3])

	assert.ErrorIs(t, sessions.Push("stale-token", nil), ErrSessionConflict)

	require.NoError(t, sessions.Stop(token, false))
	assert.ErrorIs(t, sessions.Push(token, nil), ErrSessionConflict, "push after stop conflicts")
}

func TestSessionsStopRestore(t *testing.T) {
	output := testOutput()
	output.Apply(model.Universes{"1": {100, 100, 100, 100}})

	sessions := NewSessions(output)

	token, err := sessions.Start("scene-1", model.Universes{"1": {1, 1, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, byte(1), output.Raw()["1"][0])

	require.NoError(t, sessions.Stop(token, true))
	assert.Equal(t, byte(100), output.Raw()["1"][0], "restore reverts to the pre-session frame")
}

func TestSessionsStopWithoutRestore(t *testing.T) {
	output := testOutput()
	sessions := NewSessions(output)

	token, err := sessions.Start("scene-1", model.Universes{"1": {7, 7, 7, 7}})
	require.NoError(t, err)

	require.NoError(t, sessions.Stop(token, false))
	assert.Equal(t, byte(7), output.Raw()["1"][0], "no restore keeps the last pushed frame")
}

func TestSessionsForceRelease(t *testing.T) {
	output := testOutput()
	sessions := NewSessions(output)

	_, err := sessions.Start("scene-1", nil)
	require.NoError(t, err)

	// An empty token force-releases: this is how a conflicting editor
	// evicts a stale holder before retrying its start.
	require.NoError(t, sessions.Stop("", true))

	active, _ := sessions.Active()
	assert.False(t, active)

	_, err = sessions.Start("scene-2", nil)
	assert.NoError(t, err, "session is free after force release")
}

func TestSessionsStopWithNoSession(t *testing.T) {
	sessions := NewSessions(testOutput())

	assert.ErrorIs(t, sessions.Stop("", true), ErrNoSession)
}

func TestOutputMasterAndBlackout(t *testing.T) {
	output := testOutput()
	output.Play("scene-1", model.Universes{"1": {200, 200, 200, 200}})

	output.SetMaster(0.5)
	assert.Equal(t, byte(100), output.Frame()["1"][0], "master scales the visible frame")
	assert.Equal(t, byte(200), output.Raw()["1"][0], "raw frame is unscaled")

	output.Blackout()
	assert.Equal(t, byte(0), output.Raw()["1"][0])
	assert.Empty(t, output.Playing())
}
