package ui

import "testing"

func TestThemeToggle(t *testing.T) {
	if !LightTheme().Toggle().IsDark {
		t.Fatal("toggling the light theme should produce the dark theme")
	}
	if DarkTheme().Toggle().IsDark {
		t.Fatal("toggling the dark theme should produce the light theme")
	}
}

func TestThemeByName(t *testing.T) {
	if ThemeByName("light").IsDark {
		t.Error("light theme reported dark")
	}
	if !ThemeByName("dark").IsDark {
		t.Error("dark theme reported light")
	}
}

func TestDetectThemeFromColorFgBg(t *testing.T) {
	t.Setenv("KCAL_DARK_MODE", "")

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Error("background index 0 should detect dark")
	}

	t.Setenv("COLORFGBG", "0;15")
	if DetectTheme().IsDark {
		t.Error("background index 15 should detect light")
	}
}

func TestDetectThemeFromEnvFlag(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("KCAL_DARK_MODE", "1")
	if !DetectTheme().IsDark {
		t.Error("KCAL_DARK_MODE=1 should detect dark")
	}
}

func TestNewStylesKeepsTheme(t *testing.T) {
	s := NewStyles(DarkTheme())
	if !s.Theme.IsDark {
		t.Error("styles should carry the theme they were built from")
	}
}
