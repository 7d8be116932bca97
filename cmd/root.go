/*
Copyright © 2025 Book Tutor Authors
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "booktutor",
	Short: "A question answering service for PDF books",
	Long: `booktutor ingests PDF books, indexes their content for hybrid
vector and keyword retrieval, and answers questions about them with
chapter, section and page citations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	settingDefaultConfig()
}
