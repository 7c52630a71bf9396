package rg

import (
	"fmt"

	"github.com/ValentinKolb/rgKV/cmd/util"
	"github.com/ValentinKolb/rgKV/lib/search"
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/ValentinKolb/rgKV/rpc/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rpcStore store.IStore

	// run executes a raw command line, args[0] is the command name
	run func(args ...string) (search.Response, error)

	// RegexCommands represents the rg command group
	RegexCommands = &cobra.Command{
		Use:               "rg",
		Short:             "Search and delete keys by regular expression",
		PersistentPreRunE: setupSearchClient,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	util.SetupRPCClientFlags(RegexCommands)

	key := "client-side"
	RegexCommands.PersistentFlags().Bool(key, false, util.WrapString("Evaluate the patterns in this process and only use plain KV requests (keys, mget, delete) against the server"))

	RegexCommands.AddCommand(keysCmd)
	RegexCommands.AddCommand(valuesCmd)
	RegexCommands.AddCommand(deleteCmd)
	RegexCommands.AddCommand(seedCmd)
	RegexCommands.AddCommand(perfCmd)
}

// setupSearchClient creates the clients for the configured shard
func setupSearchClient(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}
	t, err := util.GetTransport()
	if err != nil {
		return err
	}
	config := *util.GetClientConfig()
	shardId := util.GetShardID()

	if rpcStore, err = client.NewRPCStore(shardId, config, t, s); err != nil {
		return err
	}

	if viper.GetBool("client-side") {
		opts := search.DefaultOptions()
		if err := search.Init(opts); err != nil {
			return err
		}
		registry := search.NewRegistry(opts)
		gw := search.NewGateway(rpcStore)
		run = func(args ...string) (search.Response, error) {
			return registry.Execute(gw, args)
		}
		return nil
	}

	remote, err := client.NewRPCSearch(shardId, config, t, s)
	if err != nil {
		return err
	}
	run = remote.Do
	return nil
}

// execute runs a command and prints the response the way a redis client would
func execute(args ...string) error {
	resp, err := run(args...)
	if err != nil {
		return err
	}
	fmt.Println(resp)
	return nil
}
