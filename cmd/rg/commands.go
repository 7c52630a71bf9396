package rg

import (
	"github.com/spf13/cobra"
)

var (
	keysCmd = &cobra.Command{
		Use:   "keys [pattern]",
		Short: "Lists all keys whose name matches the pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute("rgkeys", args[0])
		},
	}
	valuesCmd = &cobra.Command{
		Use:   "values [mask] [pattern]",
		Short: "Lists the keys matching the glob mask whose value matches the pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute("rgvalues", args[0], args[1])
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [pattern]",
		Short: "Deletes all keys whose name matches the pattern and prints how many were deleted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute("rgdelete", args[0])
		},
	}
)
