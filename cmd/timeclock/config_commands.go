package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/0xmhha/timeclock/pkg/config"
)

// configCommand manages the configuration file.
type configCommand struct {
	global globalOptions
}

// Execute runs a config subcommand.
func (c *configCommand) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("config requires a subcommand (valid: show, path, reset)")
	}

	switch args[0] {
	case "show":
		return c.show()
	case "path":
		return c.path()
	case "reset":
		return c.reset()
	default:
		return fmt.Errorf("unknown config subcommand: %s (valid: show, path, reset)", args[0])
	}
}

// show prints the effective configuration as YAML.
func (c *configCommand) show() error {
	cfg, err := loadConfig(c.global)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Print(string(data))
	return nil
}

// path prints the configuration file path in effect.
func (c *configCommand) path() error {
	if explicit := c.explicitPath(); explicit != "" {
		fmt.Println(explicit)
		return nil
	}

	// Same search order the loader uses.
	candidates := []string{
		"./timeclock.yaml",
		config.DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			fmt.Println(path)
			return nil
		}
	}

	fmt.Printf("%s (not created; defaults in effect)\n", config.DefaultPath())
	return nil
}

// explicitPath returns the config path forced by flag or environment.
func (c *configCommand) explicitPath() string {
	if c.global.configPath != "" {
		return c.global.configPath
	}
	return os.Getenv("TIMECLOCK_CONFIG")
}

// reset writes the default configuration to the config file.
func (c *configCommand) reset() error {
	path := c.explicitPath()
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if !confirm(fmt.Sprintf("Overwrite %s with defaults?", path)) {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}

	fmt.Printf("Default configuration written to %s\n", path)
	return nil
}
