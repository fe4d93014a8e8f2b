package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/donhauser001/dhs-atlas/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage atlas configuration",
	Long: `Manage atlas configuration: MongoDB connection, LLM endpoint and
API server settings.

Examples:
  atlas config                                  # Show current config
  atlas config set mongo mongodb://db:27017/    # Set MongoDB URI
  atlas config set model qwen/qwen3-coder-30b   # Set LLM model
  atlas config delete api_key                   # Reset the API key`,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  mongo_uri     - MongoDB connection URI
  database      - database name
  llm_base_url  - OpenAI-compatible endpoint base URL
  llm_model     - model name
  llm_api_key   - API key for the LLM endpoint
  api_host      - API server bind host
  api_port      - API server port
  frontend_url  - frontend origin allowed by CORS
  debug         - enable debug logging (true/false)`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		if err := config.Set(key, value); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Set %s successfully.\n", key)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		keys := config.ListKeys()

		if val, ok := keys[key]; ok {
			fmt.Printf("%s: %s\n", key, val)
		} else {
			fmt.Printf("%s is not set\n", key)
		}
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"remove", "unset"},
	Short:   "Reset a configuration value to its default",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		if err := config.Delete(key); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Deleted %s.\n", key)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.ConfigPath())
	},
}

func showConfig() {
	fmt.Printf("Configuration file: %s\n\n", config.ConfigPath())

	keys := config.ListKeys()
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		fmt.Printf("  %s: %s\n", k, keys[k])
	}
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configDeleteCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
