package repository

import (
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	LoadCredentials() (types.Credentials, error)
}
