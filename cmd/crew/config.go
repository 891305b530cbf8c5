package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/castorlabs/crew/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify crew configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/crew/config.yaml
Project-specific overrides can be placed in .crew.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	// Mask API key if set
	apiKeyDisplay := "(not set)"
	if cfg.Anthropic.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.max_tokens: %d\n", cfg.Anthropic.MaxTokens)
	fmt.Printf("defaults.investment: %g\n", cfg.Defaults.Investment)
	fmt.Printf("defaults.rounds: %d\n", cfg.Defaults.Rounds)
	fmt.Printf("defaults.cost_per_task: %g\n", cfg.Defaults.CostPerTask)
	fmt.Printf("defaults.executor: %s\n", cfg.Defaults.Executor)
	fmt.Printf("state.path: %s\n", cfg.State.Path)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Set %s = %s\n", key, value)
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.max_tokens":
		return strconv.FormatInt(cfg.Anthropic.MaxTokens, 10), nil
	case "defaults.investment":
		return strconv.FormatFloat(cfg.Defaults.Investment, 'g', -1, 64), nil
	case "defaults.rounds":
		return strconv.Itoa(cfg.Defaults.Rounds), nil
	case "defaults.cost_per_task":
		return strconv.FormatFloat(cfg.Defaults.CostPerTask, 'g', -1, 64), nil
	case "defaults.executor":
		return cfg.Defaults.Executor, nil
	case "state.path":
		return cfg.State.Path, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.max_tokens":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid max_tokens: %s", value)
		}
		cfg.Anthropic.MaxTokens = n
	case "defaults.investment":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid investment: %s", value)
		}
		cfg.Defaults.Investment = f
	case "defaults.rounds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid rounds: %s", value)
		}
		cfg.Defaults.Rounds = n
	case "defaults.cost_per_task":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid cost_per_task: %s", value)
		}
		cfg.Defaults.CostPerTask = f
	case "defaults.executor":
		if value != "echo" && value != "claude" {
			return fmt.Errorf("invalid executor: %s (want echo or claude)", value)
		}
		cfg.Defaults.Executor = value
	case "state.path":
		cfg.State.Path = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
