package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/greatexpectationslabs/cooper-pair/pkg/pair"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// configVersion is the configuration file format written by this release
const configVersion = "0.1.0"

// Config represents the stored configuration for the pair CLI.
// It mirrors the client's environment variables and adds the session
// token captured by "pair login".
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// GraphQLEndpoint is the URL of the DQM GraphQL API
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	// Email is the account used for the login handshake
	Email string `yaml:"email"`
	// Password is the password for authentication (stored for convenience)
	Password string `yaml:"password"`
	// Token is the bearer token captured by the last login
	Token string `yaml:"token"`
	// TokenExpiry is when the token expires, RFC 3339
	TokenExpiry string `yaml:"token_expiry"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file.
// It uses the OS-specific config directory (e.g. ~/.config/cooper-pair on Linux).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "cooper-pair", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file.
// If no file is specified, it uses the default config location.
// The read error is returned unwrapped so callers can test for a
// missing file with os.IsNotExist.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	config = &c
	return nil
}

// GetConfig returns the current configuration, empty when no config file
// has been loaded.
func GetConfig() *Config {
	if config == nil {
		config = &Config{}
	}
	return config
}

// WriteConfig writes the configuration to the specified file.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// GetTokenExpiry returns the token expiry time from the configuration.
// Zero when no expiry is recorded or the recorded value does not parse.
func (cfg *Config) GetTokenExpiry() time.Time {
	if cfg.TokenExpiry == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, cfg.TokenExpiry)
	if err != nil {
		return time.Time{}
	}
	return t
}

// newClient builds a pair.Client from the stored configuration with the
// environment layered on top: a DQM_* variable beats the corresponding
// config file field. A token captured by a previous login is resumed so
// day-to-day commands skip the login handshake.
func newClient(opts ...pair.Option) (*pair.Client, error) {
	cfg := GetConfig()
	pcfg, err := pair.FromEnv()
	if err != nil {
		return nil, err
	}
	if pcfg.GraphQLEndpoint == "" {
		pcfg.GraphQLEndpoint = cfg.GraphQLEndpoint
	}
	if pcfg.Email == "" {
		pcfg.Email = cfg.Email
	}
	if pcfg.Password == "" {
		pcfg.Password = cfg.Password
	}
	if cfg.Token != "" {
		opts = append([]pair.Option{pair.WithToken(cfg.Token)}, opts...)
	}
	return pair.NewWithConfig(pcfg, opts...)
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Manage CLI configuration settings like the GraphQL endpoint and stored session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check if --endpoint flag is provided
		endpointFlag, _ := cmd.Flags().GetString("endpoint")
		if endpointFlag != "" {
			return setEndpointConfig(endpointFlag)
		}

		// If no specific flag is provided, show help
		cmd.Help()
		return nil
	},
}

// configClearCmd represents the config clear command
var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the stored session token",
	Long: `Clear the stored session token. This will remove:
1. The current authentication token
2. The token expiry time

The endpoint and credentials stay in place, so the next "pair login" can
authenticate again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadConfig(configFile); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("pair config file not found. Configure the endpoint with \"pair config --endpoint\" first.")
				os.Exit(1)
			} else {
				fmt.Printf("Unable to load config file: %s\n", err.Error())
				os.Exit(1)
			}
		}
		cfg := GetConfig()
		// Clear the token-related fields
		cfg.Token = ""
		cfg.TokenExpiry = ""
		// The password stays; it may be needed for future logins.

		// Save the config
		if err := cfg.WriteConfig(configFile); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		if jsonOutput {
			printJSON(map[string]int{"result": 1})
		} else {
			fmt.Println("Session token cleared. Authenticate again with \"pair login\".")
		}

		return nil
	},
}

func init() {
	// Add flags to config command
	configCmd.Flags().String("endpoint", "", "Set the GraphQL endpoint URL (e.g. https://dqm.example.com/graphql)")

	configCmd.AddCommand(configClearCmd)
	rootCmd.AddCommand(configCmd)
}

// setEndpointConfig writes a fresh configuration carrying the endpoint
func setEndpointConfig(endpoint string) error {
	configPath := configFile
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("endpoint must be a full URL (e.g. https://dqm.example.com/graphql)")
	}

	cfg := &Config{
		Version:         configVersion,
		GraphQLEndpoint: endpoint,
	}

	if err := cfg.WriteConfig(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]string{
			"endpoint":    cfg.GraphQLEndpoint,
			"config_file": configPath,
		})
	} else {
		fmt.Printf("Endpoint configured: %s\n", cfg.GraphQLEndpoint)
		fmt.Printf("Config file: %s\n", configPath)
	}

	return nil
}
