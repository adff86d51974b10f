package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxestate/internal/config"
	"luxestate/internal/db"
	"luxestate/internal/model"
	"luxestate/internal/repository"
)

func TestSeed_IsIdempotentByAgentEmail(t *testing.T) {
	gormDB, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gormDB) })
	require.NoError(t, db.Migrate(gormDB, false))

	cfg := &config.Config{JWTSecret: "seed-secret"}
	ctx := context.Background()

	fixture, err := loadSeedFile("testdata/seed.json")
	require.NoError(t, err)
	require.Len(t, fixture.Agents, 2)

	first, err := seed(ctx, gormDB, cfg, fixture)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Agents: 2, Properties: 3}, first)

	again, err := loadSeedFile("testdata/seed.json")
	require.NoError(t, err)
	second, err := seed(ctx, gormDB, cfg, again)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Skipped: 2}, second)

	properties, err := repository.NewPropertyRepository(gormDB).List(ctx, model.PropertyFilter{})
	require.NoError(t, err)
	require.Len(t, properties, 3)
	for _, p := range properties {
		assert.Equal(t, model.PropertyStatusAvailable, p.Status)
		require.NotNil(t, p.Agent)
	}

	agent, err := repository.NewUserRepository(gormDB).FindByEmail(ctx, "maya@luxestate.example")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAgent, agent.Role)
	assert.Equal(t, "maya@luxestate.example", agent.Email)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := loadSeedFile("testdata/missing.json")
	assert.ErrorContains(t, err, "read seed file")
}
