package kv

import (
	"fmt"

	"github.com/ValentinKolb/rgKV/lib/db/util"
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Set(args[0], []byte(args[1])); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			resp, ok, err := rpcStore.Get(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, resp=%s\n", key, ok, resp)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Delete(args[0]); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			found, err := rpcStore.Has(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%t\n", key, found)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys [mask]",
		Short: "Lists all keys matching a glob mask (default *)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mask := util.MatchAll
			if len(args) == 1 {
				mask = args[0]
			}
			keys, err := rpcStore.Keys(mask)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Println("(empty list)")
			}
			for i, k := range keys {
				fmt.Printf("%d) %q\n", i+1, k)
			}
			return nil
		},
	}
	mgetCmd = &cobra.Command{
		Use:   "mget [key...]",
		Short: "Reads the values of several keys at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replies, err := rpcStore.MGet(args)
			if err != nil {
				return err
			}
			for i, r := range replies {
				switch r := r.(type) {
				case store.ReplyString:
					fmt.Printf("%d) %q\n", i+1, string(r))
				case store.ReplyBytes:
					fmt.Printf("%d) %q\n", i+1, []byte(r))
				default:
					fmt.Printf("%d) (nil)\n", i+1)
				}
			}
			return nil
		},
	}
)
