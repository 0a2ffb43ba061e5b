package main

import (
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "clinic",
		Short:        "Clinic scheduling API",
		SilenceUsage: true,
		// Running the bare binary starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump users, appointments and medical records to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "db_dump.json", "file to write the dump to")
	return cmd
}
