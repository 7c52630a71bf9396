package rg

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/rgKV/cmd/util"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// seedKeyLayout formats dates as YYYY:MM:DD
const seedKeyLayout = "2006:01:02"

var (
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Writes one YYYY:MM:DD key per date of a range, each with a random UUID as value",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}
)

func init() {
	key := "from"
	seedCmd.Flags().String(key, "2015-01-01", util.WrapString("First date of the range (YYYY-MM-DD)"))
	key = "count"
	seedCmd.Flags().Int(key, 100, util.WrapString("Number of keys to write"))
	key = "step-days"
	seedCmd.Flags().Int(key, 14, util.WrapString("Days between two consecutive keys"))
}

// dateKeys returns count keys starting at from, stepDays apart
func dateKeys(from time.Time, count, stepDays int) []string {
	keys := make([]string, 0, count)
	for i := 0; i < count; i++ {
		keys = append(keys, from.AddDate(0, 0, i*stepDays).Format(seedKeyLayout))
	}
	return keys
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	from, err := time.Parse(time.DateOnly, viper.GetString("from"))
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	count := viper.GetInt("count")
	if count < 0 {
		return fmt.Errorf("count must not be negative")
	}

	failed := 0
	for _, key := range dateKeys(from, count, viper.GetInt("step-days")) {
		if err := rpcStore.Set(key, []byte(uuid.NewString())); err != nil {
			fmt.Printf("(seed) - error setting %s: %v\n", key, err)
			failed++
		}
	}
	fmt.Printf("seeded %d keys (%d failed)\n", count-failed, failed)
	return nil
}
