package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	envFiles []string
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
// envFiles are dotenv files read before credentials are resolved; missing files
// are ignored and variables already in the environment win.
func NewConfigRepository(envFiles ...string) repository.ConfigRepository {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	return &ConfigRepositoryImpl{envFiles: envFiles}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Fields absent from the file keep their defaults.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := types.DefaultConfig()

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	fillEndpointDefaults(&config.Endpoints)
	return config, nil
}

// LoadCredentials reads the API keys from the environment after loading the
// dotenv files. Absent files are skipped; a file that does not parse is an error.
func (r *ConfigRepositoryImpl) LoadCredentials() (types.Credentials, error) {
	for _, f := range r.envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return types.Credentials{}, fmt.Errorf("error parsing env file %s: %w", f, err)
		}
	}

	return types.Credentials{
		PublicDataKey: strings.TrimSpace(os.Getenv(types.EnvPublicDataKey)),
		MolitStatsKey: strings.TrimSpace(os.Getenv(types.EnvMolitStatsKey)),
		PopulationKey: strings.TrimSpace(os.Getenv(types.EnvPopulationKey)),
		REBKey:        strings.TrimSpace(os.Getenv(types.EnvREBKey)),
	}, nil
}

func fillEndpointDefaults(e *types.Endpoints) {
	defaults := types.DefaultConfig().Endpoints
	if e.AptTrade == "" {
		e.AptTrade = defaults.AptTrade
	}
	if e.Population == "" {
		e.Population = defaults.Population
	}
	if e.MolitStats == "" {
		e.MolitStats = defaults.MolitStats
	}
	if e.PriceIndex == "" {
		e.PriceIndex = defaults.PriceIndex
	}
}
