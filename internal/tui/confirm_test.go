package tui

import "testing"

func TestIsInteractive_CIEnv(t *testing.T) {
	t.Setenv("CI", "1")
	if IsInteractive() {
		t.Error("CI environment reported as interactive")
	}
}

func TestIsInteractive_EachCIVar(t *testing.T) {
	for _, env := range ciEnvVars {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, "true")
			if IsInteractive() {
				t.Errorf("%s set but reported interactive", env)
			}
		})
	}
}
