package common

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lni/dragonboat/v4/config"
)

// --------------------------------------------------------------------------
// helper functions for to interface with Dragonboat (for the server util)
// --------------------------------------------------------------------------

// Dragonboat uses RTT (Round Trip Time) to determine the timing of elections and heartbeats.
// These default values are selected according to the RAFT Paper
const (
	electionRTTFactor  = 10
	heartbeatRTTFactor = 1
)

// ToDragonboatConfig converts the ServerConfig to Dragonboat Config
func (c *ServerConfig) ToDragonboatConfig(shardId uint64) config.Config {
	return config.Config{
		ReplicaID:          c.ReplicaID,
		ShardID:            shardId,
		ElectionRTT:        electionRTTFactor,  // = c.RTTMillisecond * 10
		HeartbeatRTT:       heartbeatRTTFactor, // = c.RTTMillisecond
		CheckQuorum:        true,
		SnapshotEntries:    c.SnapshotEntries,
		CompactionOverhead: c.CompactionOverhead,
		MaxInMemLogSize:    0,
	}
}

// ToNodeHostConfig creates a NodeHostConfig for Dragonboat
func (c *ServerConfig) ToNodeHostConfig() config.NodeHostConfig {
	return config.NodeHostConfig{
		WALDir:         c.DataDir,
		NodeHostDir:    c.DataDir,
		RTTMillisecond: c.RTTMillisecond,
		RaftAddress:    c.ClusterMembers[c.ReplicaID],
	}
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

type ServerShardType string

const (
	ShardTypeLocalIStore  ServerShardType = "local store"
	ShardTypeRemoteIStore ServerShardType = "remote store"
)

type ServerShard struct {
	// ShardID is the ID of the shard
	ShardID uint64
	// Type selects the store implementation of the shard
	Type ServerShardType
}

// ServerConfig holds all configuration parameters of the server
type ServerConfig struct {
	// the shards served by this node
	Shards []ServerShard

	// Dragonboat parameters (only used by remote store shards)
	RTTMillisecond     uint64
	SnapshotEntries    uint64
	CompactionOverhead uint64
	DataDir            string
	ReplicaID          uint64
	ClusterMembers     map[uint64]string

	// remote store parameters
	TimeoutSecond int64

	// HTTP api settings
	Endpoint string

	// Search command settings
	ReadOnly         bool // refuse write commands (rgdelete)
	PatternCacheSize int  // number of compiled patterns to cache, 0 disables the cache

	// Logging configuration
	LogLevel string
}

// HasRemoteShard checks if the configuration contains any remote shards
func (c *ServerConfig) HasRemoteShard() bool {
	for _, shard := range c.Shards {
		if shard.Type == ShardTypeRemoteIStore {
			return true
		}
	}
	return false
}

// addSection and addField format the String() output of the config structs
func addSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.ToUpper(title))
	sb.WriteString("\n")
}

func addField(sb *strings.Builder, name, value string) {
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection(&sb, "RPC Server")
	addField(&sb, "Endpoint", c.Endpoint)
	addField(&sb, "Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection(&sb, "Search")
	addField(&sb, "Read Only", strconv.FormatBool(c.ReadOnly))
	addField(&sb, "Pattern Cache Size", strconv.Itoa(c.PatternCacheSize))

	addSection(&sb, "Logging")
	addField(&sb, "Log Level", c.LogLevel)

	addSection(&sb, "Shards")
	for _, shard := range c.Shards {
		addField(&sb, strconv.FormatUint(shard.ShardID, 10), string(shard.Type))
	}

	if c.HasRemoteShard() {
		addSection(&sb, "Node Identity")
		addField(&sb, "RAFT Address", c.ClusterMembers[c.ReplicaID])
		addField(&sb, "Node ID", strconv.FormatUint(c.ReplicaID, 10))

		addSection(&sb, "RAFT Parameters")
		addField(&sb, "Round Trip Time", fmt.Sprintf("%d ms", c.RTTMillisecond))
		addField(&sb, "Election RTT", fmt.Sprintf("%d ms", c.RTTMillisecond*electionRTTFactor))
		addField(&sb, "Heartbeat RTT", fmt.Sprintf("%d ms", c.RTTMillisecond*heartbeatRTTFactor))
		addField(&sb, "Snapshot Entries", strconv.FormatUint(c.SnapshotEntries, 10))
		addField(&sb, "Compaction Overhead", strconv.FormatUint(c.CompactionOverhead, 10))

		addSection(&sb, "Storage")
		addField(&sb, "Data Directory", c.DataDir)

		addSection(&sb, "Cluster Members")
		var ids []uint64
		for id := range c.ClusterMembers {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			addField(&sb, strconv.FormatUint(id, 10), c.ClusterMembers[id])
		}
	}
	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints     []string
	TimeoutSecond int
	RetryCount    int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection(&sb, "Client Configuration")
	addField(&sb, "Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField(&sb, "Retry Count", strconv.Itoa(c.RetryCount))

	addSection(&sb, "Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(&sb, strconv.Itoa(i), endpoint)
	}
	return sb.String()
}
