package search

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

var (
	readFaults         = metrics.NewCounter(`rgkv_search_read_faults_total`)
	deleteFaults       = metrics.NewCounter(`rgkv_search_delete_faults_total`)
	skippedValues      = metrics.NewCounter(`rgkv_search_skipped_values_total`)
	patternCacheHits   = metrics.NewCounter(`rgkv_search_pattern_cache_hits_total`)
	patternCacheMisses = metrics.NewCounter(`rgkv_search_pattern_cache_misses_total`)
)

func commandCounter(command, outcome string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`rgkv_search_commands_total{command=%q,outcome=%q}`, command, outcome))
}

func commandDuration(command string) *metrics.Summary {
	return metrics.GetOrCreateSummary(fmt.Sprintf(`rgkv_search_command_duration_seconds{command=%q}`, command))
}
