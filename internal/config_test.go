package internal

import (
	"strings"
	"testing"
)

func validGitHubConfig() GitHubConfig {
	return GitHubConfig{
		APIBase: "https://api.github.com",
		Repo:    "bishnuhaldar/dhanvikri",
		Branch:  "main",
		Path:    "index.html",
		Token:   "ghp_test",
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{name: "disabled mode", cfg: AuthConfig{Mode: AuthModeDisabled}, wantErr: false},
		{name: "empty mode defaults to disabled", cfg: AuthConfig{}, wantErr: false},
		{name: "token mode with token", cfg: AuthConfig{Mode: AuthModeToken, Token: "secret"}, wantErr: false},
		{name: "token mode without token", cfg: AuthConfig{Mode: AuthModeToken}, wantErr: true},
		{name: "invalid mode", cfg: AuthConfig{Mode: "basic"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthConfig_AuthEnabled(t *testing.T) {
	disabled := AuthConfig{Mode: AuthModeDisabled}
	if disabled.AuthEnabled() {
		t.Error("disabled mode reports enabled")
	}
	token := AuthConfig{Mode: AuthModeToken, Token: "secret"}
	if !token.AuthEnabled() {
		t.Error("token mode reports disabled")
	}
}

func TestGitHubConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := validGitHubConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		cfg := validGitHubConfig()
		cfg.Token = ""
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for missing token")
		}
		if !strings.Contains(err.Error(), "GITHUB_TOKEN") {
			t.Errorf("error should point at GITHUB_TOKEN: %v", err)
		}
	})

	t.Run("bad repo form", func(t *testing.T) {
		for _, repo := range []string{"dhanvikri", "a/b/c", "owner name/repo"} {
			cfg := validGitHubConfig()
			cfg.Repo = repo
			if err := cfg.Validate(); err == nil {
				t.Errorf("repo %q should be rejected", repo)
			}
		}
	})

	t.Run("missing path", func(t *testing.T) {
		cfg := validGitHubConfig()
		cfg.Path = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing path")
		}
	})
}

func TestHTTPConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{name: "valid port", port: 8080, wantErr: false},
		{name: "zero port", port: 0, wantErr: true},
		{name: "too large", port: 70000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := HTTPConfig{Port: tt.port}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults plus token", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "ghp_test")
		cfg := NewDefaultConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config with token should validate: %v", err)
		}
	})

	t.Run("defaults without token", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		cfg := NewDefaultConfig()
		if err := cfg.Validate(); err == nil {
			t.Error("expected error when GITHUB_TOKEN is unset")
		}
	})
}
