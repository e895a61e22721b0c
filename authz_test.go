package multiauth

import (
	"context"
	"errors"
	"testing"
)

func TestACLAuthorizer_Permits(t *testing.T) {
	acl := NewACLAuthorizer([]ACLEntry{
		{Principal: "group:banned", Resource: "*", Action: "*", Allow: false},
		{Principal: "group:admins", Resource: "*", Action: "*", Allow: true},
		{Principal: Authenticated, Resource: "reports", Action: "view", Allow: true},
	})

	tests := []struct {
		name       string
		principals PrincipalSet
		resource   string
		action     string
		wantAllow  bool
	}{
		{
			name:       "admin allowed everywhere",
			principals: NewPrincipalSet(Everyone, "group:admins"),
			resource:   "reports",
			action:     "delete",
			wantAllow:  true,
		},
		{
			name:       "authenticated can view reports",
			principals: NewPrincipalSet(Everyone, Authenticated, "bob"),
			resource:   "reports",
			action:     "view",
			wantAllow:  true,
		},
		{
			name:       "authenticated cannot delete reports",
			principals: NewPrincipalSet(Everyone, Authenticated, "bob"),
			resource:   "reports",
			action:     "delete",
			wantAllow:  false,
		},
		{
			name:       "first matching rule wins",
			principals: NewPrincipalSet(Everyone, "group:banned", "group:admins"),
			resource:   "reports",
			action:     "view",
			wantAllow:  false,
		},
		{
			name:       "no match denies",
			principals: NewPrincipalSet(Everyone),
			resource:   "reports",
			action:     "view",
			wantAllow:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := acl.Permits(context.Background(), tt.principals, tt.resource, tt.action)
			if tt.wantAllow && err != nil {
				t.Errorf("Permits() = %v, want allow", err)
			}
			if !tt.wantAllow {
				if !errors.Is(err, ErrForbidden) {
					t.Errorf("Permits() = %v, want ErrForbidden", err)
				}
			}
		})
	}
}

func TestACLAuthorizer_EmptyDeniesEverything(t *testing.T) {
	acl := NewACLAuthorizer(nil)
	err := acl.Permits(context.Background(), NewPrincipalSet(Everyone, "group:admins"), "anything", "do")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Permits() = %v, want ErrForbidden", err)
	}
}
