package access

import (
	"path"
	"strings"
)

// PathClass is the protection level of a navigable path.
type PathClass int

const (
	PublicPath PathClass = iota
	MemberPath
	AdminPath
)

func (p PathClass) String() string {
	switch p {
	case MemberPath:
		return "member"
	case AdminPath:
		return "admin"
	default:
		return "public"
	}
}

// Outcome is the terminal state of a guard evaluation.
type Outcome int

const (
	Allowed Outcome = iota
	RedirectLogin
	RedirectUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "allowed"
	}
}

// Policy holds the guarded prefixes and the redirect targets.
// Prefixes match as plain string prefixes, so "/administrator" is
// guarded as admin too.
type Policy struct {
	AdminPrefixes    []string
	MemberPrefixes   []string
	LoginPath        string
	UnauthorizedPath string
}

func DefaultPolicy() Policy {
	return Policy{
		AdminPrefixes:    []string{"/admin"},
		MemberPrefixes:   []string{"/profile", "/directory"},
		LoginPath:        "/login",
		UnauthorizedPath: "/unauthorized",
	}
}

// Classify returns the protection level of p. Admin prefixes take
// precedence over member prefixes. Dot segments are judged both as
// written and as cleaned, and the stricter class wins.
func (pol Policy) Classify(p string) PathClass {
	if p == "" {
		p = "/"
	} else if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return max(pol.classifyPrefix(p), pol.classifyPrefix(path.Clean(p)))
}

// ClassifyAll returns the strictest class among several views of the same
// request (decoded path, routed path, route template).
func (pol Policy) ClassifyAll(paths ...string) PathClass {
	class := PublicPath
	for _, p := range paths {
		class = max(class, pol.Classify(p))
	}
	return class
}

// Decide is the admission rule. It depends on nothing but its arguments.
func (pol Policy) Decide(p string, state State) Outcome {
	return Admit(pol.Classify(p), state)
}

// Admit maps a path class and a session state to an outcome.
func Admit(class PathClass, state State) Outcome {
	switch class {
	case AdminPath:
		switch state {
		case Admin:
			return Allowed
		case Member:
			return RedirectUnauthorized
		default:
			return RedirectLogin
		}
	case MemberPath:
		if state.Authenticated() {
			return Allowed
		}
		return RedirectLogin
	default:
		return Allowed
	}
}

func (pol Policy) classifyPrefix(p string) PathClass {
	if hasAnyPrefix(p, pol.AdminPrefixes) {
		return AdminPath
	}
	if hasAnyPrefix(p, pol.MemberPrefixes) {
		return MemberPath
	}
	return PublicPath
}

// Target is the redirect location for o, or "" when o is Allowed.
func (pol Policy) Target(o Outcome) string {
	switch o {
	case RedirectLogin:
		return pol.LoginPath
	case RedirectUnauthorized:
		return pol.UnauthorizedPath
	default:
		return ""
	}
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
