package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr           string
	CORSAllowedOrigins []string

	LogLevel     string
	LogFormat    string
	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Auth0     Auth0Config
	Actions   ActionsConfig
	EdgeProxy EdgeProxyConfig
}

// Auth0Config carries identity-provider endpoints, audiences and management credentials.
type Auth0Config struct {
	Issuer  string
	JWKSURL string
	Domain  string

	ClientID           string
	ClientSecret       string
	ManagementURL      string
	ManagementAudience string

	AdminAudience    string
	BusinessAudience string
	DonorAudience    string

	SSOProfileID     string
	BusinessClientID string
	EventsAPIToken   string
}

type ActionsConfig struct {
	ClaimsNamespace     string
	PrivacyPolicyFormID string
	SlackWebhookURL     string
	// APIToken guards the hook runner endpoints when set.
	APIToken string
}

type EdgeProxyConfig struct {
	EdgeLocation string
	CNAMEAPIKey  string
}

var defaults = map[string]any{
	"app_service":                "replate",
	"app_version":                "0.1.0",
	"environment":                "development",
	"http_addr":                  ":8080",
	"cors_allowed_origins":       "*",
	"log_level":                  "info",
	"log_format":                 "json",
	"otlp_endpoint":              "localhost:4317",
	"database_type":              "postgres",
	"database_host":              "localhost",
	"database_port":              "5432",
	"database_name":              "replate",
	"database_user":              "postgres",
	"database_password":          "",
	"database_sslmode":           "disable",
	"database_path":              "replate.db",
	"database_max_idle_conn":     5,
	"database_max_open_conn":     20,
	"database_conn_max_lifetime": 300,
	"database_conn_max_idle":     60,
	"actions_claims_namespace":   "https://replate.dev/",
}

// NewViper builds the configuration source: .env, then an optional replate.yaml, then the environment.
func NewViper() (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("replate")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/replate")
	v.AddConfigPath("/var/lib/replate/config")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return v, nil
}

// Load resolves Config from the viper source.
func Load(v *viper.Viper) Config {
	domain := strings.TrimSpace(v.GetString("auth0_domain"))

	cfg := Config{
		AppName:            v.GetString("app_service"),
		AppVersion:         v.GetString("app_version"),
		Environment:        v.GetString("environment"),
		HTTPAddr:           v.GetString("http_addr"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:          strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		OTLPEndpoint:       v.GetString("otlp_endpoint"),
		DBType:             v.GetString("database_type"),
		DBHost:             v.GetString("database_host"),
		DBPort:             v.GetString("database_port"),
		DBName:             v.GetString("database_name"),
		DBUser:             v.GetString("database_user"),
		DBPassword:         v.GetString("database_password"),
		DBSSLMode:          v.GetString("database_sslmode"),
		DBPath:             v.GetString("database_path"),
		DBMaxIdleConn:      v.GetInt("database_max_idle_conn"),
		DBMaxOpenConn:      v.GetInt("database_max_open_conn"),
		DBConnMaxLifetime:  v.GetInt("database_conn_max_lifetime"),
		DBConnMaxIdleTime:  v.GetInt("database_conn_max_idle"),
		Auth0: Auth0Config{
			Issuer:             strings.TrimSpace(v.GetString("auth0_issuer")),
			JWKSURL:            strings.TrimSpace(v.GetString("auth0_jwks_url")),
			Domain:             domain,
			ClientID:           strings.TrimSpace(v.GetString("auth0_client_id")),
			ClientSecret:       strings.TrimSpace(v.GetString("auth0_client_secret")),
			ManagementURL:      strings.TrimSpace(v.GetString("auth0_management_url")),
			ManagementAudience: strings.TrimSpace(v.GetString("auth0_management_audience")),
			AdminAudience:      strings.TrimSpace(v.GetString("auth0_audience_admin")),
			BusinessAudience:   strings.TrimSpace(v.GetString("auth0_audience_business")),
			DonorAudience:      strings.TrimSpace(v.GetString("auth0_audience_donor")),
			SSOProfileID:       strings.TrimSpace(v.GetString("self_service_sso_profile_id")),
			BusinessClientID:   strings.TrimSpace(v.GetString("business_spa_client_id")),
			EventsAPIToken:     strings.TrimSpace(v.GetString("auth0_events_api_token")),
		},
		Actions: ActionsConfig{
			ClaimsNamespace:     v.GetString("actions_claims_namespace"),
			PrivacyPolicyFormID: strings.TrimSpace(v.GetString("privacy_policy_form_id")),
			SlackWebhookURL:     strings.TrimSpace(v.GetString("slack_webhook_url")),
			APIToken:            strings.TrimSpace(v.GetString("actions_api_token")),
		},
		EdgeProxy: EdgeProxyConfig{
			EdgeLocation: strings.TrimSpace(v.GetString("auth0_edge_location")),
			CNAMEAPIKey:  strings.TrimSpace(v.GetString("cname_api_key")),
		},
	}

	if domain != "" {
		if cfg.Auth0.Issuer == "" {
			cfg.Auth0.Issuer = "https://" + domain + "/"
		}
		if cfg.Auth0.ManagementURL == "" {
			cfg.Auth0.ManagementURL = "https://" + domain
		}
		if cfg.Auth0.ManagementAudience == "" {
			cfg.Auth0.ManagementAudience = "https://" + domain + "/api/v2/"
		}
		if cfg.Auth0.JWKSURL == "" {
			cfg.Auth0.JWKSURL = "https://" + domain + "/.well-known/jwks.json"
		}
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
