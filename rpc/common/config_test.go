package common

import (
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"":        logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil {
			t.Errorf("ParseLogLevel(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLogLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestServerConfigString(t *testing.T) {
	local := ServerConfig{
		Shards:           []ServerShard{{ShardID: 100, Type: ShardTypeLocalIStore}},
		Endpoint:         "0.0.0.0:8080",
		ReadOnly:         true,
		PatternCacheSize: 64,
		LogLevel:         "info",
	}
	if local.HasRemoteShard() {
		t.Errorf("HasRemoteShard() = true for local shards only")
	}
	s := local.String()
	for _, want := range []string{"0.0.0.0:8080", "local store", "Read Only", "true"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() misses %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "RAFT") {
		t.Errorf("String() of a local config should not list raft parameters")
	}

	remote := local
	remote.Shards = append(remote.Shards, ServerShard{ShardID: 200, Type: ShardTypeRemoteIStore})
	remote.ReplicaID = 1
	remote.ClusterMembers = map[uint64]string{1: "localhost:63001", 2: "localhost:63002"}
	if !remote.HasRemoteShard() {
		t.Errorf("HasRemoteShard() = false")
	}
	s = remote.String()
	if !strings.Contains(s, "localhost:63002") || !strings.Contains(s, "RAFT PARAMETERS") {
		t.Errorf("String() of a remote config misses cluster data:\n%s", s)
	}

	nh := remote.ToNodeHostConfig()
	if nh.RaftAddress != "localhost:63001" {
		t.Errorf("RaftAddress = %s", nh.RaftAddress)
	}
	if cfg := remote.ToDragonboatConfig(200); cfg.ShardID != 200 || cfg.ReplicaID != 1 {
		t.Errorf("ToDragonboatConfig() = %+v", cfg)
	}
}
