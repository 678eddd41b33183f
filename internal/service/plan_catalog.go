package service

import (
	"fmt"
	"os"
	"strings"

	"wordflow/internal/model"

	"gopkg.in/yaml.v3"
)

// PlanCatalog maps Stripe product and price IDs to internal plans.
type PlanCatalog struct {
	plans map[string]model.Plan
}

type planCatalogFile struct {
	Plans map[string][]string `yaml:"plans"`
}

// LoadPlanCatalog reads a YAML catalog of the form
//
//	plans:
//	  pro: [prod_ABC, price_123]
func LoadPlanCatalog(path string) (*PlanCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan catalog %s: %w", path, err)
	}
	return ParsePlanCatalog(data)
}

func ParsePlanCatalog(data []byte) (*PlanCatalog, error) {
	var f planCatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing plan catalog: %w", err)
	}
	c := &PlanCatalog{plans: map[string]model.Plan{}}
	for name, ids := range f.Plans {
		plan := model.ParsePlan(name)
		if plan == model.PlanFree && strings.ToLower(strings.TrimSpace(name)) != string(model.PlanFree) {
			return nil, fmt.Errorf("plan catalog: unknown plan %q", name)
		}
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if prev, ok := c.plans[id]; ok && prev != plan {
				return nil, fmt.Errorf("plan catalog: %s listed under both %s and %s", id, prev, plan)
			}
			c.plans[id] = plan
		}
	}
	return c, nil
}

// PlanFor resolves a product or price ID. Unknown IDs resolve to the free plan.
func (c *PlanCatalog) PlanFor(id string) model.Plan {
	if c == nil {
		return model.PlanFree
	}
	if p, ok := c.plans[id]; ok {
		return p
	}
	return model.PlanFree
}

// Resolve returns the first ID the catalog knows, or the first non-empty ID
// when none is known.
func (c *PlanCatalog) Resolve(ids ...string) string {
	fallback := ""
	for _, id := range ids {
		if id == "" {
			continue
		}
		if fallback == "" {
			fallback = id
		}
		if c != nil {
			if _, ok := c.plans[id]; ok {
				return id
			}
		}
	}
	return fallback
}

// Len reports how many IDs the catalog knows.
func (c *PlanCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.plans)
}
