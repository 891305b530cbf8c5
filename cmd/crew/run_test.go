package main

import (
	"testing"

	"github.com/castorlabs/crew/internal/registry"
)

func TestDefaultProfilesRegisterCleanly(t *testing.T) {
	agents := registry.NewStore()
	for _, p := range defaultProfiles {
		if err := agents.Register(p); err != nil {
			t.Fatalf("register %s: %v", p.Name, err)
		}
	}
	for _, name := range []string{"planner", "marketer", "seller", "support"} {
		if !agents.Has(name) {
			t.Errorf("built-in agent %s not registered", name)
		}
	}
}
