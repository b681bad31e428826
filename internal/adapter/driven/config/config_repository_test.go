package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "config.toml",
			content: `
dir = "reports"
report_type = ["xlsx", "csv"]
page_size = 500
retry_delay = "2s"
region_code_file = "codes/code_raw.csv"

[endpoints]
apt_trade = "http://localhost:8080/apt"
`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `
dir: reports
report_type: [xlsx, csv]
page_size: 500
retry_delay: 2s
region_code_file: codes/code_raw.csv
endpoints:
  apt_trade: http://localhost:8080/apt
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{
  "dir": "reports",
  "report_type": ["xlsx", "csv"],
  "page_size": 500,
  "retry_delay": "2s",
  "region_code_file": "codes/code_raw.csv",
  "endpoints": {"apt_trade": "http://localhost:8080/apt"}
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewConfigRepository()
			cfg, err := repo.LoadConfigFile(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfigFile: %v", err)
			}

			if cfg.Dir != "reports" || cfg.PageSize != 500 || cfg.RegionCodeFile != "codes/code_raw.csv" {
				t.Errorf("unexpected config: %+v", cfg)
			}
			if !reflect.DeepEqual(cfg.ReportType, []string{"xlsx", "csv"}) {
				t.Errorf("report_type = %v", cfg.ReportType)
			}
			if time.Duration(cfg.RetryDelay) != 2*time.Second {
				t.Errorf("retry_delay = %v", time.Duration(cfg.RetryDelay))
			}
			if cfg.Endpoints.AptTrade != "http://localhost:8080/apt" {
				t.Errorf("apt_trade endpoint = %s", cfg.Endpoints.AptTrade)
			}

			// Values absent from the file keep their defaults.
			if cfg.RetryAttempts != 3 || time.Duration(cfg.HTTPTimeout) != 30*time.Second {
				t.Errorf("defaults lost: %+v", cfg)
			}
			if cfg.Endpoints.PriceIndex != types.DefaultPriceIndexURL {
				t.Errorf("price_index endpoint = %s", cfg.Endpoints.PriceIndex)
			}
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := NewConfigRepository()

	if _, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := repo.LoadConfigFile(writeConfig(t, "config.ini", "dir=x")); err == nil {
		t.Error("expected error for an unsupported extension")
	}
	if _, err := repo.LoadConfigFile(writeConfig(t, "config.json", "{")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := repo.LoadConfigFile(t.TempDir()); err == nil {
		t.Error("expected error for a directory")
	}
}

func TestLoadCredentials(t *testing.T) {
	envFile := writeConfig(t, ".env", "PUBLIC_DATA_API_KEY=from-dotenv\nPOP_KEY=pop-from-dotenv\n")

	t.Setenv(types.EnvPublicDataKey, "")
	os.Unsetenv(types.EnvPublicDataKey)
	t.Setenv(types.EnvPopulationKey, " from-env ")
	t.Setenv(types.EnvMolitStatsKey, "")
	t.Setenv(types.EnvREBKey, "reb")

	creds, err := NewConfigRepository(envFile, filepath.Join(t.TempDir(), "absent.env")).LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}

	if creds.PublicDataKey != "from-dotenv" {
		t.Errorf("PublicDataKey = %q, want the dotenv value", creds.PublicDataKey)
	}
	if creds.PopulationKey != "from-env" {
		t.Errorf("PopulationKey = %q, environment should win over dotenv", creds.PopulationKey)
	}
	if creds.MolitStatsKey != "" || creds.REBKey != "reb" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}

func TestLoadCredentials_MalformedEnvFile(t *testing.T) {
	envFile := writeConfig(t, ".env", "PUBLIC-DATA-API-KEY=abc\n")

	_, err := NewConfigRepository(envFile).LoadCredentials()
	if err == nil {
		t.Fatal("expected an error for a malformed env file")
	}
	if !strings.Contains(err.Error(), envFile) {
		t.Errorf("error %q should name the file", err)
	}
}
