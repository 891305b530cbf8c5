package registry

import (
	"errors"
	"testing"
)

func TestStoreRegisterAndGet(t *testing.T) {
	s := NewStore()

	err := s.Register(Profile{Name: "Product Manager", Role: "Product", Goal: "Define the roadmap"})
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	p, ok := s.Get("Product Manager")
	if !ok {
		t.Fatal("expected profile to be found")
	}
	if p.Role != "Product" {
		t.Errorf("expected role Product, got %s", p.Role)
	}

	if !s.Has("Product Manager") {
		t.Error("expected Has to report registered agent")
	}
	if s.Has("Nobody") {
		t.Error("expected Has to miss unknown agent")
	}
}

func TestStoreRejectsDuplicateName(t *testing.T) {
	s := NewStore()

	if err := s.Register(Profile{Name: "Sales Manager"}); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	err := s.Register(Profile{Name: "Sales Manager"})
	if !errors.Is(err, ErrAgentExists) {
		t.Errorf("expected ErrAgentExists, got %v", err)
	}
}

func TestStoreRejectsEmptyName(t *testing.T) {
	s := NewStore()
	if err := s.Register(Profile{}); err == nil {
		t.Error("expected error for empty agent name")
	}
}

func TestStoreListPreservesRegistrationOrder(t *testing.T) {
	s := NewStore()
	names := []string{"Product Manager", "Marketing Manager", "Sales Manager", "Support Manager"}
	for _, n := range names {
		if err := s.Register(Profile{Name: n}); err != nil {
			t.Fatalf("register %s: %v", n, err)
		}
	}

	got := s.List()
	if len(got) != len(names) {
		t.Fatalf("expected %d profiles, got %d", len(names), len(got))
	}
	for i, n := range names {
		if got[i].Name != n {
			t.Errorf("list[%d]: expected %s, got %s", i, n, got[i].Name)
		}
	}
}
