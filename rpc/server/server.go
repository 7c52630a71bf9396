package server

import (
	"fmt"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/rgKV/lib/db"
	"github.com/ValentinKolb/rgKV/lib/db/engines/maple"
	"github.com/ValentinKolb/rgKV/lib/search"
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/ValentinKolb/rgKV/lib/store/dstore"
	"github.com/ValentinKolb/rgKV/lib/store/lstore"
	"github.com/ValentinKolb/rgKV/rpc/common"
	"github.com/ValentinKolb/rgKV/rpc/serializer"
	"github.com/ValentinKolb/rgKV/rpc/transport"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// serverShard is a struct that represents a shard in the RPC server
// It contains the store it encapsulates and the adapter
// that handles requests for the store
type serverShard struct {
	Store   store.IStore
	Adapter IRPCServerAdapter
}

// RPCServer serves the shards of one node over a transport
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]
	nodeHost   *dragonboat.NodeHost
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     xsync.NewMapOf[uint64, serverShard](),
	}
}

// handle decodes a request, passes it to the adapter of the shard and encodes the response
func (s *RPCServer) handle(shardId uint64, req []byte) []byte {
	var msg common.Message
	var respMsg *common.Message

	if shard, ok := s.shards.Load(shardId); !ok {
		respMsg = common.NewErrorResponse(fmt.Sprintf("shard %d not found", shardId))
	} else if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		respMsg = shard.Adapter.Handle(&msg, shard.Store)
	}

	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize %s response: %v", respMsg.MsgType, err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}

// init creates the shards and registers the transport handler.
// If it fails, everything created so far is released again.
func (s *RPCServer) init() (err error) {
	defer func() {
		if err != nil {
			s.shutdown()
		}
	}()

	opts := search.Options{
		PatternCacheSize: s.config.PatternCacheSize,
		ReadOnly:         s.config.ReadOnly,
	}
	if err := search.Init(opts); err != nil {
		return fmt.Errorf("failed to initialize search: %w", err)
	}
	registry := search.NewRegistry(opts)

	// Function to create a new database instance
	dbFactory := func() db.KVDB { return maple.NewMapleDB(nil) }

	// Only create the NodeHost if we have remote shards
	if s.config.HasRemoteShard() {
		var nodeHost *dragonboat.NodeHost
		nodeHost, err = dragonboat.NewNodeHost(s.config.ToNodeHostConfig())
		if err != nil {
			return fmt.Errorf("failed to create node host: %w", err)
		}
		s.nodeHost = nodeHost
	}
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	// A single server can serve any number of local and remote shards, every shard gets its own store
	for _, shardConfig := range s.config.Shards {
		var st store.IStore

		switch shardConfig.Type {
		case common.ShardTypeLocalIStore:
			st = lstore.NewLocalStore(dbFactory)
		case common.ShardTypeRemoteIStore:
			err := s.nodeHost.StartConcurrentReplica(
				s.config.ClusterMembers,
				false,
				dstore.CreateStateMachineFactory(dbFactory),
				s.config.ToDragonboatConfig(shardConfig.ShardID),
			)
			if err != nil {
				return fmt.Errorf("failed to start shard %d: %w", shardConfig.ShardID, err)
			}
			st = dstore.NewDistributedStore(s.nodeHost, shardConfig.ShardID, timeout)
		default:
			return fmt.Errorf("invalid shard type: %s", shardConfig.Type)
		}

		if _, loaded := s.shards.LoadOrStore(shardConfig.ShardID, serverShard{
			Store:   st,
			Adapter: NewIStoreServerAdapter(registry),
		}); loaded {
			return fmt.Errorf("shard %d is configured twice", shardConfig.ShardID)
		}
		Logger.Infof("created %s for shard %d", shardConfig.Type, shardConfig.ShardID)
	}

	s.transport.RegisterHandler(s.handle)
	Logger.Infof("rgkv setup completed successfully (read-only=%t)", s.config.ReadOnly)
	return nil
}

// shutdown releases everything init created
func (s *RPCServer) shutdown() {
	s.shards.Clear()
	if err := search.Shutdown(); err != nil {
		Logger.Warningf("search shutdown failed: %v", err)
	}
	if s.nodeHost != nil {
		s.nodeHost.Close()
		s.nodeHost = nil
	}
}

// Serve starts the RPC server
// This function will also initialize the loggers, the shards and start the transport layer
func (s *RPCServer) Serve() error {
	if err := common.InitLoggers(s.config.LogLevel); err != nil {
		return err
	}
	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", s.config.String())

	if err := s.init(); err != nil {
		return err
	}
	defer s.shutdown()
	return s.transport.Listen(s.config)
}
