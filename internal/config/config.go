package config

// Config represents the main toolkit configuration
type Config struct {
	// Catalog build and query settings
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`

	// N8N instance API access
	N8N N8NConfig `json:"n8n" mapstructure:"n8n"`

	// Release reconciler settings
	Release ReleaseConfig `json:"release" mapstructure:"release"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// CatalogConfig holds node catalog settings
type CatalogConfig struct {
	DBPath          string   `json:"db_path" mapstructure:"db_path"`
	NodeModulesPath string   `json:"node_modules_path" mapstructure:"node_modules_path"`
	Packages        []string `json:"packages" mapstructure:"packages"`
	FetchDocs       bool     `json:"fetch_docs" mapstructure:"fetch_docs"`
}

// N8NConfig holds API credentials for a live n8n instance
type N8NConfig struct {
	APIURL string `json:"api_url" mapstructure:"api_url"`
	APIKey string `json:"api_key" mapstructure:"api_key"`
}

// ReleaseConfig holds upstream repository settings
type ReleaseConfig struct {
	RepoBaseURL string `json:"repo_base_url" mapstructure:"repo_base_url"`
	DocsBaseURL string `json:"docs_base_url" mapstructure:"docs_base_url"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			NodeModulesPath: "node_modules",
			Packages: []string{
				"n8n-nodes-base",
				"@n8n/n8n-nodes-langchain",
			},
			FetchDocs: false,
		},
		N8N: N8NConfig{
			APIURL: "http://localhost:5678",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}
