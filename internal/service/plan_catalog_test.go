package service

import (
	"os"
	"path/filepath"
	"testing"

	"wordflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
plans:
  starter: [prod_starter, price_starter]
  pro: [prod_pro]
  premium: [prod_premium]
  credits: [prod_credits]
`

func TestParsePlanCatalog(t *testing.T) {
	c, err := ParsePlanCatalog([]byte(testCatalog))
	require.NoError(t, err)

	assert.Equal(t, 5, c.Len())
	assert.Equal(t, model.PlanStarter, c.PlanFor("price_starter"))
	assert.Equal(t, 60000, c.PlanFor("prod_pro").WordLimit())
	assert.Equal(t, 150000, c.PlanFor("prod_premium").WordLimit())
	assert.Equal(t, 60000, c.PlanFor("prod_credits").WordLimit())
	assert.Equal(t, model.PlanFree, c.PlanFor("prod_unknown"))
	assert.Equal(t, 1000, c.PlanFor("").WordLimit())
}

func TestParsePlanCatalogRejectsBadInput(t *testing.T) {
	_, err := ParsePlanCatalog([]byte("plans:\n  gold: [prod_gold]\n"))
	assert.ErrorContains(t, err, "unknown plan")

	_, err = ParsePlanCatalog([]byte("plans:\n  pro: [prod_x]\n  max: [prod_x]\n"))
	assert.ErrorContains(t, err, "listed under both")

	_, err = ParsePlanCatalog([]byte("plans: [oops"))
	assert.Error(t, err)
}

func TestLoadPlanCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))

	c, err := LoadPlanCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, c.PlanFor("prod_pro"))

	_, err = LoadPlanCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolvePrefersKnownID(t *testing.T) {
	c, err := ParsePlanCatalog([]byte(testCatalog))
	require.NoError(t, err)

	assert.Equal(t, "prod_pro", c.Resolve("price_unlisted", "prod_pro"))
	assert.Equal(t, "price_starter", c.Resolve("price_starter", "prod_pro"))
	assert.Equal(t, "price_unlisted", c.Resolve("", "price_unlisted", "prod_unlisted"))
	assert.Equal(t, "", c.Resolve())
}

func TestNilCatalogIsFree(t *testing.T) {
	var c *PlanCatalog
	assert.Equal(t, model.PlanFree, c.PlanFor("prod_pro"))
}
