// Package dotenv loads a local env file and applies command line overrides on top.
package dotenv

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads path into the environment without replacing variables that are already
// set, then applies -port, -storage and -payment-methods when given.
func Load(path string) error {
	return loadFile(path, flag.CommandLine, os.Args[1:])
}

func loadFile(path string, fs *flag.FlagSet, args []string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return applyFlags(fs, args)
}

func applyFlags(fs *flag.FlagSet, args []string) error {
	overrides := map[string]*string{
		"PORT":                 fs.String("port", "", "Server port (overrides PORT)"),
		"STORAGE_DRIVER":       fs.String("storage", "", "Storage driver, memory or postgres (overrides STORAGE_DRIVER)"),
		"PAYMENT_METHODS_FILE": fs.String("payment-methods", "", "Payment methods YAML (overrides PAYMENT_METHODS_FILE)"),
	}

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	for env, value := range overrides {
		if *value == "" {
			continue
		}
		if err := os.Setenv(env, *value); err != nil {
			return fmt.Errorf("failed to set %s environment variable: %w", env, err)
		}
	}
	return nil
}
