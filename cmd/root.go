package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/rgKV/cmd/kv"
	"github.com/ValentinKolb/rgKV/cmd/rg"
	"github.com/ValentinKolb/rgKV/cmd/serve"
	"github.com/ValentinKolb/rgKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "rgkv",
		Short: "regex queries for a key-value store",
		Long: fmt.Sprintf(`rgKV (v%s)

A key-value store that answers regular expression queries next to the data:
rgkeys and rgvalues list matching keys, rgdelete removes them.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rgKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rgKV v%s\n", Version)
		},
	}
)

func init() {
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(rg.RegexCommands)
	RootCmd.AddCommand(versionCmd)

	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
