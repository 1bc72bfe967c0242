package buildtools

import (
	"context"
	"testing"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStepsDefaultsToSpigot(t *testing.T) {
	c := New()
	plan, err := c.ResolveSteps(context.Background(), "1.20.1", "", nil)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, model.StepExecuteJava, plan[2].Kind)
	assert.NotContains(t, plan[2].Args, "--compile")
}

func TestResolveStepsCraftbukkitAddsCompileFlag(t *testing.T) {
	c := New()
	plan, err := c.ResolveSteps(context.Background(), "1.20.1", "craftbukkit", nil)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, "buildtools", plan[2].Label)
	assert.Contains(t, plan[2].Args, "craftbukkit")
}

func TestResolveStepsPassesExtraArgs(t *testing.T) {
	c := New()
	plan, err := c.ResolveSteps(context.Background(), "1.20.1", "spigot", []string{"--disable-java-check"})
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Contains(t, plan[2].Args, "--disable-java-check")
}
