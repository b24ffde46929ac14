package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/maxWiklund/txConverter/internal/adapters/cli/tui"
	"github.com/maxWiklund/txConverter/internal/config"
)

var (
	forceFlag  bool
	formatFlag string
)

// NewConfigCmd creates the config subcommand
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  runConfigShow,
	}
	showCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: yaml or toml (default from the file extension)")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(showCmd, initCmd)
	return cmd
}

func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	return config.ConfigPath()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	format := formatFlag
	if format == "" {
		format = config.FormatOf(configPath())
	}
	data, err := cfg.Marshal(format)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", configPath())
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !forceFlag {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if cmd.Flags().Changed("gamma") {
		cfg.Defaults.Gamma = gammaFlag
	}

	if isTerminal(cmd.OutOrStdout()) && isTerminal(os.Stdin) {
		exts, err := pickExtensions(cfg.Scan.Extensions)
		if err != nil {
			return err
		}
		if exts == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		cfg.Scan.Extensions = exts
	}

	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// pickExtensions asks which image formats scans should pick up
func pickExtensions(current []string) ([]string, error) {
	options := make([]tui.CheckboxOption, 0, len(config.DefaultExtensions))
	for _, ext := range config.DefaultExtensions {
		options = append(options, tui.CheckboxOption{
			Label:   ext,
			Value:   ext,
			Checked: slices.Contains(current, ext),
		})
	}
	return tui.RunCheckbox("Which image formats should scans pick up?", options, 1)
}
