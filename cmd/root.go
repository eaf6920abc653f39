// Package cmd is for command line interactions with the coviscope application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varshithab05/CoviScope/config"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "coviscope",
	Short: `Classify SARS-CoV-2 genomes into variants of concern and explain
each call with the mutations the classifier relied on`,
	Version:           "0.1.0",
	PersistentPreRunE: readConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// readConfig layers the optional settings file under env variables and flags
func readConfig(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	return config.ReadFile(viper.GetViper(), path)
}

// set flags
func init() {
	config.SetDefaults(viper.GetViper())

	// config is an optional settings file (that overrides the defaults)
	RootCmd.PersistentFlags().StringP("config", "c", "", "settings file, default ./coviscope.yaml")
	RootCmd.PersistentFlags().StringP("model", "m", config.DefaultModelPath, "classifier weights <NPZ>")
	RootCmd.PersistentFlags().StringP("reference", "r", config.DefaultReferencePath, "encoded reference genome <NPY>")
	RootCmd.PersistentFlags().IntP("top-n", "n", 15, "number of most relevant positions to explain")

	viper.BindPFlag("model", RootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("reference", RootCmd.PersistentFlags().Lookup("reference"))
	viper.BindPFlag("top-n", RootCmd.PersistentFlags().Lookup("top-n"))
}
