package access

import "testing"

func TestPolicy_Classify(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		path string
		want PathClass
	}{
		{"/admin", AdminPath},
		{"/admin/reports", AdminPath},
		{"/admin/export/profiles.csv", AdminPath},
		{"/administrator", AdminPath},
		{"//admin", AdminPath},
		{"/./admin/cards", AdminPath},
		{"/admin/../jobs", AdminPath},
		{"/jobs/../admin", AdminPath},
		{"/directory/..", MemberPath},
		{"/profile", MemberPath},
		{"/profile/card/qr.png", MemberPath},
		{"/directory", MemberPath},
		{"/directory/42", MemberPath},
		{"/", PublicPath},
		{"", PublicPath},
		{"/jobs", PublicPath},
		{"/events", PublicPath},
		{"/verify/abc", PublicPath},
		{"/login", PublicPath},
		{"/unauthorized", PublicPath},
		{"/api/admin/profiles/1", PublicPath},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := policy.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestPolicy_ClassifyAll(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name  string
		paths []string
		want  PathClass
	}{
		{"all public", []string{"/jobs", "/jobs", ""}, PublicPath},
		{"route template is admin", []string{"/z/qr.png", "/admin/cards/x%2F..%2Fz/qr.png", "/admin/cards/:id/qr.png"}, AdminPath},
		{"member template", []string{"/", "/directory/..", "/directory/:id"}, MemberPath},
		{"no paths", nil, PublicPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.ClassifyAll(tt.paths...); got != tt.want {
				t.Errorf("ClassifyAll(%q) = %s, want %s", tt.paths, got, tt.want)
			}
		})
	}
}

func TestAdmit(t *testing.T) {
	tests := []struct {
		class PathClass
		state State
		want  Outcome
	}{
		{AdminPath, Anonymous, RedirectLogin},
		{AdminPath, Member, RedirectUnauthorized},
		{AdminPath, Admin, Allowed},
		{MemberPath, Anonymous, RedirectLogin},
		{MemberPath, Member, Allowed},
		{MemberPath, Admin, Allowed},
		{PublicPath, Anonymous, Allowed},
	}

	for _, tt := range tests {
		if got := Admit(tt.class, tt.state); got != tt.want {
			t.Errorf("Admit(%s, %s) = %s, want %s", tt.class, tt.state, got, tt.want)
		}
	}
}

func TestPolicy_AdminPrecedence(t *testing.T) {
	policy := Policy{
		AdminPrefixes:  []string{"/directory/manage"},
		MemberPrefixes: []string{"/directory"},
	}

	if got := policy.Classify("/directory/manage/1"); got != AdminPath {
		t.Errorf("expected admin prefix to win, got %s", got)
	}
	if got := policy.Classify("/directory/1"); got != MemberPath {
		t.Errorf("expected member path, got %s", got)
	}
}

func TestPolicy_TransitionTable(t *testing.T) {
	policy := DefaultPolicy()

	adminPaths := []string{"/admin", "/admin/reports", "/admin/events/7/attendees.csv"}
	memberPaths := []string{"/profile", "/profile/card", "/directory", "/directory/42"}
	publicPaths := []string{"/", "/jobs", "/events", "/stories", "/verify/42", "/login"}

	tests := []struct {
		class string
		paths []string
		state State
		want  Outcome
	}{
		{"admin", adminPaths, Anonymous, RedirectLogin},
		{"admin", adminPaths, Member, RedirectUnauthorized},
		{"admin", adminPaths, Admin, Allowed},
		{"member", memberPaths, Anonymous, RedirectLogin},
		{"member", memberPaths, Member, Allowed},
		{"member", memberPaths, Admin, Allowed},
		{"public", publicPaths, Anonymous, Allowed},
		{"public", publicPaths, Member, Allowed},
		{"public", publicPaths, Admin, Allowed},
	}

	for _, tt := range tests {
		for _, p := range tt.paths {
			t.Run(tt.class+"/"+tt.state.String()+p, func(t *testing.T) {
				if got := policy.Decide(p, tt.state); got != tt.want {
					t.Errorf("Decide(%q, %s) = %s, want %s", p, tt.state, got, tt.want)
				}
			})
		}
	}
}

func TestPolicy_AdminPathNeverAllowedWithoutAdmin(t *testing.T) {
	policy := DefaultPolicy()

	for _, state := range []State{Anonymous, Member, State(99)} {
		if policy.Decide("/admin", state) == Allowed {
			t.Errorf("admin path allowed for state %v", state)
		}
	}
}

func TestPolicy_Idempotent(t *testing.T) {
	policy := DefaultPolicy()

	for _, p := range []string{"/admin", "/directory/42", "/jobs"} {
		for _, state := range []State{Anonymous, Member, Admin} {
			first := policy.Decide(p, state)
			second := policy.Decide(p, state)
			if first != second {
				t.Errorf("Decide(%q, %s) changed between calls: %s then %s", p, state, first, second)
			}
		}
	}
}

func TestPolicy_Target(t *testing.T) {
	policy := DefaultPolicy()

	if got := policy.Target(RedirectLogin); got != "/login" {
		t.Errorf("expected /login, got %q", got)
	}
	if got := policy.Target(RedirectUnauthorized); got != "/unauthorized" {
		t.Errorf("expected /unauthorized, got %q", got)
	}
	if got := policy.Target(Allowed); got != "" {
		t.Errorf("expected no target when allowed, got %q", got)
	}
}
