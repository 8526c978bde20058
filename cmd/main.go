package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clubpulse",
		Short: "Score and rank student clubs from surveys, chat exports and the event calendar",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(serveCmd())
	root.AddCommand(scoreCmd())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP upload and results server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func scoreCmd() *cobra.Command {
	var (
		surveyPath string
		eventsPath string
		chatDir    string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Run one scoring pass over local files and write the result tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), surveyPath, eventsPath, chatDir, outDir)
		},
	}

	cmd.Flags().StringVar(&surveyPath, "survey", "", "survey responses CSV (required)")
	cmd.Flags().StringVar(&eventsPath, "events", "", "event calendar CSV or XLSX")
	cmd.Flags().StringVar(&chatDir, "chat-dir", "", "directory of exported chat transcripts, one file per club")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: from config)")
	_ = cmd.MarkFlagRequired("survey")
	return cmd
}
