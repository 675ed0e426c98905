package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fsqueue",
	Short: "fsqueue inspects and administers fsqueue queue directories",
	Long: `fsqueue is a CLI tool for operating on the durable, filesystem-backed
queues that the fsqueue Go package manages: inspecting sealed-file
backlog, forcing or resuming dispatch, and administrative purge.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.fsqueue.yaml)")
	rootCmd.PersistentFlags().Uint64("max-total-bytes", 1<<30, "purge bound: total sealed bytes")
	rootCmd.PersistentFlags().Int("max-file-count", 10000, "purge bound: total sealed file count")
	rootCmd.PersistentFlags().String("quarantine-dir", "", "directory dropped files are moved into instead of deleted")

	_ = viper.BindPFlag("max_total_bytes", rootCmd.PersistentFlags().Lookup("max-total-bytes"))
	_ = viper.BindPFlag("max_file_count", rootCmd.PersistentFlags().Lookup("max-file-count"))
	_ = viper.BindPFlag("quarantine_dir", rootCmd.PersistentFlags().Lookup("quarantine-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fsqueue")
	}

	viper.SetEnvPrefix("FSQUEUE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
