package multiauth

import (
	"context"
	"errors"
	"testing"
)

func TestRegistry_RegisterPolicy(t *testing.T) {
	reg := NewRegistry()
	factory := func(cfg map[string]string) (Policy, error) {
		return &mockPolicy{}, nil
	}

	if err := reg.RegisterPolicy("one", factory); err != nil {
		t.Fatalf("RegisterPolicy() error = %v", err)
	}
	if err := reg.RegisterPolicy("one", factory); err == nil {
		t.Error("duplicate RegisterPolicy() error = nil, want error")
	}
	if err := reg.RegisterPolicy("", factory); !errors.Is(err, ErrInvalidFactory) {
		t.Errorf("empty name error = %v, want ErrInvalidFactory", err)
	}
	if err := reg.RegisterPolicy("two", nil); !errors.Is(err, ErrInvalidFactory) {
		t.Errorf("nil factory error = %v, want ErrInvalidFactory", err)
	}

	names := reg.ListPolicies()
	if len(names) != 1 || names[0] != "one" {
		t.Errorf("ListPolicies() = %v, want [one]", names)
	}
}

func TestRegistry_CreatePolicy(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterPolicy("static", func(cfg map[string]string) (Policy, error) {
		return &mockPolicy{authenticated: cfg["userid"]}, nil
	})

	p, err := reg.CreatePolicy("static", map[string]string{"userid": "alice"})
	if err != nil {
		t.Fatalf("CreatePolicy() error = %v", err)
	}
	if p == nil {
		t.Fatal("CreatePolicy() returned nil policy")
	}

	if _, err := reg.CreatePolicy("missing", nil); !errors.Is(err, ErrFactoryNotFound) {
		t.Errorf("CreatePolicy(missing) error = %v, want ErrFactoryNotFound", err)
	}
}

func TestRegistry_GroupFinder(t *testing.T) {
	reg := NewRegistry()

	err := reg.RegisterGroupFinder("staff", func(_ context.Context, _ string) ([]Principal, bool) {
		return []Principal{"group:staff"}, true
	})
	if err != nil {
		t.Fatalf("RegisterGroupFinder() error = %v", err)
	}

	if _, err := reg.GroupFinder("staff"); err != nil {
		t.Errorf("GroupFinder() error = %v", err)
	}
	if _, err := reg.GroupFinder("missing"); !errors.Is(err, ErrFactoryNotFound) {
		t.Errorf("GroupFinder(missing) error = %v, want ErrFactoryNotFound", err)
	}
}
