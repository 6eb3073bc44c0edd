package main

import (
	"encoding/json"
	"fmt"
	"time"

	"conversation-starters/internal/common/validation"
	"conversation-starters/pkg/registry"

	"github.com/spf13/cobra"
)

var registryPath string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the activity registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse the registry and compile every schema in it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		if _, err := validation.New(reg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registry %s OK: %d activities\n", reg.Version, len(reg.Activities))
		return nil
	},
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered task types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		for _, a := range reg.Activities {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-10s timeout=%s retries=%d\n",
				a.TaskType, a.ImplementationStatus, a.TimeoutDuration(30*time.Second), a.Retries)
		}
		return nil
	},
}

var registryShowCmd = &cobra.Command{
	Use:   "show TASK_TYPE",
	Short: "Print one activity as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		a, ok := reg.Find(args[0])
		if !ok {
			return fmt.Errorf("unknown task type %q", args[0])
		}
		out, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	registryCmd.PersistentFlags().StringVar(&registryPath, "path", "", "registry JSON file (default: the embedded registry)")
	registryCmd.AddCommand(registryValidateCmd, registryListCmd, registryShowCmd)
	rootCmd.AddCommand(registryCmd)
}

func loadRegistry() (*registry.ActivityRegistry, error) {
	if registryPath == "" {
		return registry.Default()
	}
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}
