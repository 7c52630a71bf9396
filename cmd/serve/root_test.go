package serve

import (
	"testing"

	"github.com/ValentinKolb/rgKV/lib/db/util"
	"github.com/ValentinKolb/rgKV/rpc/common"
)

func TestParseShards(t *testing.T) {
	shards, err := parseShards("100=lstore, 200 = dstore")
	if err != nil {
		t.Fatalf("parseShards failed: %v", err)
	}
	want := []common.ServerShard{
		{ShardID: 100, Type: common.ShardTypeLocalIStore},
		{ShardID: 200, Type: common.ShardTypeRemoteIStore},
	}
	if len(shards) != len(want) {
		t.Fatalf("expected %d shards, got %d", len(want), len(shards))
	}
	for i := range want {
		if shards[i] != want[i] {
			t.Errorf("shard %d: expected %+v, got %+v", i, want[i], shards[i])
		}
	}

	for _, invalid := range []string{"100", "x=lstore", "100=lockmgr(lstore)", ""} {
		if _, err := parseShards(invalid); err == nil {
			t.Errorf("expected an error for %q", invalid)
		}
	}
}

func TestParseClusterMembers(t *testing.T) {
	members, err := parseClusterMembers("node-1=localhost:63001,node-2=localhost:63002")
	if err != nil {
		t.Fatalf("parseClusterMembers failed: %v", err)
	}
	if got := members[util.HashString("node-2", 0)]; got != "localhost:63002" {
		t.Errorf("expected address of node-2, got %q", got)
	}
	if _, err := parseClusterMembers("node-1"); err == nil {
		t.Error("expected an error for a member without address")
	}
}
