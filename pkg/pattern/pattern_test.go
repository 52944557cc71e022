package pattern

import (
	"errors"
	"reflect"
	"testing"

	perrors "github.com/pathline-dev/pathline/internal/errors"
)

func TestCompileStatic(t *testing.T) {
	c, err := Compile("/profile")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if c.IsDynamic() {
		t.Error("static pattern reported as dynamic")
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/profile", true},
		{"/profile/42", false},
		{"/profil", false},
		{"/", false},
		// Anchored: no prefix matching.
		{"/profile2", false},
	}

	for _, tt := range tests {
		if _, ok := c.Match(tt.path); ok != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, ok, tt.want)
		}
	}
}

func TestCompileRoot(t *testing.T) {
	c, err := Compile("/")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := c.Match("/"); !ok {
		t.Error("root pattern should match /")
	}
	if _, ok := c.Match("/anything"); ok {
		t.Error("root pattern should match only /")
	}
}

func TestCompileParams(t *testing.T) {
	c, err := Compile("/game/:id/round/:round")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !c.IsDynamic() {
		t.Error("param pattern reported as static")
	}
	if !reflect.DeepEqual(c.ParamNames, []string{"id", "round"}) {
		t.Errorf("ParamNames = %v, want [id round]", c.ParamNames)
	}

	captures, ok := c.Match("/game/42/round/3")
	if !ok {
		t.Fatal("expected match")
	}
	if !reflect.DeepEqual(captures, []string{"42", "3"}) {
		t.Errorf("captures = %v, want [42 3]", captures)
	}

	// A param segment never spans a slash.
	if _, ok := c.Match("/game/42/7/round/3"); ok {
		t.Error("param segment should not match across slashes")
	}
	// A param segment must be non-empty.
	if _, ok := c.Match("/game//round/3"); ok {
		t.Error("param segment should not match empty")
	}
}

func TestCompileEscapesMetacharacters(t *testing.T) {
	c, err := Compile("/files/a.b")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := c.Match("/files/a.b"); !ok {
		t.Error("literal dot should match itself")
	}
	if _, ok := c.Match("/files/aXb"); ok {
		t.Error("literal dot should not act as a regex wildcard")
	}
}

func TestCompileRejectsDuplicateParams(t *testing.T) {
	_, err := Compile("/game/:id/opponent/:id")
	if err == nil {
		t.Fatal("expected error for duplicate parameter names")
	}
	var perr *perrors.Error
	if !errors.As(err, &perr) || perr.Code != "P002" {
		t.Errorf("err = %v, want code P002", err)
	}
}

func TestCompileRejectsBadPatterns(t *testing.T) {
	for _, pat := range []string{"profile", "", "/game/:"} {
		if _, err := Compile(pat); err == nil {
			t.Errorf("Compile(%q) should fail", pat)
		}
	}
}
