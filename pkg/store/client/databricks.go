package client

import (
	"database/sql"
	"fmt"
	"strings"

	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/databricks/databricks-sdk-go/config"
)

type DatabricksSettings struct {
	Host     string
	Token    string
	HTTPPath string
	Catalog  string
	Schema   string
	// Profile and ConfigFile point at a .databrickscfg entry used when Host or
	// Token are not given explicitly.
	Profile    string
	ConfigFile string
}

// Resolve fills Host and Token from the Databricks unified config when they are missing.
func (s DatabricksSettings) Resolve() (DatabricksSettings, error) {
	if s.HTTPPath == "" {
		return s, fmt.Errorf("databricks http_path is required")
	}
	if s.Host != "" && s.Token != "" {
		return s, nil
	}

	cfg := &config.Config{
		Host:       s.Host,
		Token:      s.Token,
		Profile:    s.Profile,
		ConfigFile: s.ConfigFile,
	}
	if err := cfg.EnsureResolved(); err != nil {
		return s, fmt.Errorf("failed to resolve databricks profile %q: %w", s.Profile, err)
	}
	if cfg.Host == "" || cfg.Token == "" {
		return s, fmt.Errorf("databricks profile %q must define host and token", s.Profile)
	}

	s.Host = cfg.Host
	s.Token = cfg.Token
	return s, nil
}

func (s DatabricksSettings) hostname() string {
	host := strings.TrimPrefix(s.Host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}

// NewDatabricksDB opens a SQL warehouse connection.
func NewDatabricksDB(settings DatabricksSettings) (*sql.DB, error) {
	resolved, err := settings.Resolve()
	if err != nil {
		return nil, err
	}

	opts := []dbsql.ConnOption{
		dbsql.WithServerHostname(resolved.hostname()),
		dbsql.WithPort(443),
		dbsql.WithHTTPPath(resolved.HTTPPath),
		dbsql.WithAccessToken(resolved.Token),
	}
	if resolved.Catalog != "" || resolved.Schema != "" {
		opts = append(opts, dbsql.WithInitialNamespace(resolved.Catalog, resolved.Schema))
	}

	connector, err := dbsql.NewConnector(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create databricks connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}
