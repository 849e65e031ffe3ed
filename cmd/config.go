package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/barisgit/fluxdocs/config"
	"github.com/barisgit/fluxdocs/offline"
	"github.com/barisgit/fluxdocs/storage"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage docs configuration",
		Long:  "Validate, view, and create the offline docs settings file",
	}

	cmd.AddCommand(configValidateCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())

	return cmd
}

func configValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration file",
		Long:  "Validate the syntax and structure of a settings file, environment overrides included",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigValidate,
	}

	cmd.Flags().Bool("strict", false, "Enable strict validation (fail on warnings)")

	return cmd
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [config-file]",
		Short: "Show configuration information",
		Long:  "Display detailed information about the current settings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}

	cmd.Flags().Bool("verbose", false, "Show detailed configuration breakdown")

	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "Initialize a new configuration file",
		Long:  "Create a new docs.yaml settings file, asking for each value unless --yes is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite existing configuration file")
	cmd.Flags().BoolP("yes", "y", false, "Accept the defaults without prompting")
	cmd.Flags().String("storage", "filesystem", "Storage backend")
	cmd.Flags().String("location", "public", "Directory for the filesystem backend")
	cmd.Flags().String("mode", string(config.ModeNested), "Layout mode (nested or flat)")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if err := handleWorkDir(); err != nil {
		return err
	}

	configPath := getConfigPath(args)
	strict, _ := cmd.Flags().GetBool("strict")
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "🔍 Validating configuration file: %s\n", configPath)

	cm := config.NewConfigManager(config.ConfigLoadOptions{
		Path:              configPath,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		LoadEnv:           true,
		Quiet:             false,
	})

	settings, err := cm.LoadSettingsFromPath(configPath)
	if err != nil {
		fmt.Fprintf(out, "❌ Configuration validation failed:\n%v\n", err)
		return err
	}

	if err := offline.CheckSettings(*settings); err != nil {
		fmt.Fprintf(out, "❌ Configuration cannot generate docs:\n%v\n", err)
		return err
	}

	fmt.Fprintf(out, "✅ Configuration is valid!\n")

	info, err := config.GetConfigInfo(configPath)
	if err == nil {
		fmt.Fprintf(out, "\n%s\n", info.String())
	}

	issues := checkConfigIssues(settings)
	if len(issues) > 0 {
		fmt.Fprintf(out, "\n⚠️  Potential issues found:\n")
		for i, issue := range issues {
			fmt.Fprintf(out, "  %d. %s\n", i+1, issue)
		}
		if strict {
			return fmt.Errorf("strict validation failed due to %d issue(s)", len(issues))
		}
	}

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := handleWorkDir(); err != nil {
		return err
	}

	configPath := getConfigPath(args)
	verbose, _ := cmd.Flags().GetBool("verbose")
	out := cmd.OutOrStdout()

	info, err := config.GetConfigInfo(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(out, "%s\n", info.String())

	if verbose {
		fmt.Fprintf(out, "\n📝 Detailed Configuration:\n")

		settings, err := loadSettings(configPath, false, true)
		if err != nil {
			return fmt.Errorf("failed to load full configuration: %w", err)
		}

		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}

		fmt.Fprintf(out, "```yaml\n%s```\n", string(data))
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := handleWorkDir(); err != nil {
		return err
	}

	configPath := getConfigPath(args)
	force, _ := cmd.Flags().GetBool("force")
	yes, _ := cmd.Flags().GetBool("yes")
	backend, _ := cmd.Flags().GetString("storage")
	location, _ := cmd.Flags().GetString("location")
	mode, _ := cmd.Flags().GetString("mode")

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", configPath)
		}
	}

	settings := config.DefaultSettings()
	settings.EnableOfflineDocs = true
	settings.DefaultDocsStorage = backend
	settings.Mode = config.Mode(mode)
	settings.APIVersion = "1.0"

	if !yes {
		if err := askSettings(settings, &location); err != nil {
			return err
		}
	}

	if isFilesystem(settings.DefaultDocsStorage) {
		settings.FileStorageKwargs["location"] = location
		settings.FileStorageKwargs["base_url"] = "/"
	}

	if errs := config.ValidateSettings(settings); errs.HasErrors() {
		return fmt.Errorf("refusing to write invalid configuration:\n%s", errs.Error())
	}
	if err := config.WriteSettings(configPath, settings); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Created configuration file: %s\n", configPath)
	fmt.Fprintf(cmd.OutOrStdout(), "   Storage: %s\n", settings.DefaultDocsStorage)
	fmt.Fprintf(cmd.OutOrStdout(), "   Mode: %s\n", settings.Mode)

	return nil
}

// askSettings prompts for the values a new settings file needs
func askSettings(settings *config.Settings, location *string) error {
	modes := make([]string, len(config.Modes))
	for i, mode := range config.Modes {
		modes[i] = string(mode)
	}

	answers := struct {
		Storage    string
		Mode       string
		APIVersion string
		BasePath   string
		Title      string
	}{}

	questions := []*survey.Question{
		{
			Name: "storage",
			Prompt: &survey.Select{
				Message: "Where should the docs be stored?",
				Options: storage.Backends(),
				Default: settings.DefaultDocsStorage,
			},
		},
		{
			Name: "mode",
			Prompt: &survey.Select{
				Message: "How should the files be laid out?",
				Options: modes,
				Default: string(settings.Mode),
				Description: func(value string, index int) string {
					if value == string(config.ModeFlat) {
						return "one file per resource directly under docs/"
					}
					return "directories mirroring resource paths"
				},
			},
		},
		{
			Name:   "apiversion",
			Prompt: &survey.Input{Message: "API version:", Default: settings.APIVersion},
		},
		{
			Name:     "basepath",
			Prompt:   &survey.Input{Message: "Offline base path (e.g. https://api.example.com, empty to skip):"},
			Validate: validateBasePath,
		},
		{
			Name:   "title",
			Prompt: &survey.Input{Message: "API title:"},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	settings.DefaultDocsStorage = answers.Storage
	settings.Mode = config.Mode(answers.Mode)
	settings.APIVersion = answers.APIVersion
	settings.OfflineBasePath = answers.BasePath
	settings.Info.Title = answers.Title

	if isFilesystem(settings.DefaultDocsStorage) {
		prompt := &survey.Input{Message: "Directory to write docs into:", Default: *location}
		if err := survey.AskOne(prompt, location, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	return nil
}

func validateBasePath(answer interface{}) error {
	value, _ := answer.(string)
	if value == "" {
		return nil
	}
	probe := config.DefaultSettings()
	probe.OfflineBasePath = value
	if errs := config.ValidateSettings(probe); errs.HasErrors() {
		return errs
	}
	return nil
}

func isFilesystem(backend string) bool {
	switch backend {
	case "filesystem", "fs", "local":
		return true
	}
	return false
}

func checkConfigIssues(settings *config.Settings) []string {
	var issues []string

	if settings.APIVersion == "" {
		issues = append(issues, "api_version is empty - clients will see an unversioned API")
	}

	if settings.OfflineBasePath == "" {
		issues = append(issues, "offline_base_path is not set - resource documents will have an empty basePath")
	}

	if isFilesystem(settings.DefaultDocsStorage) && settings.FileStorageKwargs["location"] == "" {
		issues = append(issues, "file_storage_kwargs.location is not set - docs are written to the working directory")
	}

	if settings.Info.Title == "" {
		issues = append(issues, "info.title is empty")
	}

	return issues
}
