package search

import (
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Permission is the access class of a command.
type Permission uint8

const (
	ReadOnly Permission = iota // The command never changes the store.
	Write                      // The command may change the store.
)

func (p Permission) String() string {
	if p == Write {
		return "write"
	}
	return "readonly"
}

// Handler runs a command. args do not contain the command name.
type Handler func(gw Gateway, args []string) (Response, error)

// Command is one entry of the command table.
type Command struct {
	Name       string
	Usage      string
	Permission Permission
	Handler    Handler
}

var commandTable = []Command{
	{
		Name:       "rgkeys",
		Usage:      "rgkeys <pattern>",
		Permission: ReadOnly,
		Handler: func(gw Gateway, args []string) (Response, error) {
			a, err := ParseKeySearchArgs(args)
			if err != nil {
				return nil, err
			}
			return SearchKeys(gw, a)
		},
	},
	{
		Name:       "rgvalues",
		Usage:      "rgvalues <mask> <pattern>",
		Permission: ReadOnly,
		Handler: func(gw Gateway, args []string) (Response, error) {
			a, err := ParseValueSearchArgs(args)
			if err != nil {
				return nil, err
			}
			return SearchValues(gw, a)
		},
	},
	{
		Name:       "rgdelete",
		Usage:      "rgdelete <pattern>",
		Permission: Write,
		Handler: func(gw Gateway, args []string) (Response, error) {
			a, err := ParseKeySearchArgs(args)
			if err != nil {
				return nil, err
			}
			return DeleteByPattern(gw, a)
		},
	},
}

// --------------------------------------------------------------------------
// Options & Lifecycle
// --------------------------------------------------------------------------

// Options configure the package and a Registry.
type Options struct {
	PatternCacheSize int  // number of compiled patterns to keep, 0 disables the cache
	ReadOnly         bool // refuse commands with Write permission
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		PatternCacheSize: 256,
	}
}

// Init sets up the pattern cache. It is called once by the host before
// commands are executed; calling it again replaces the cache.
func Init(opts Options) error {
	if opts.PatternCacheSize <= 0 {
		patterns.Store(nil)
		log.Infof("pattern cache disabled")
		return nil
	}
	cache, err := lru.New(opts.PatternCacheSize)
	if err != nil {
		return err
	}
	if old := patterns.Swap(cache); old != nil {
		old.Purge()
	}
	log.Infof("pattern cache initialized (size=%d)", opts.PatternCacheSize)
	return nil
}

// Shutdown drops the pattern cache.
func Shutdown() error {
	if old := patterns.Swap(nil); old != nil {
		old.Purge()
	}
	return nil
}

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Registry resolves command names and runs commands.
// It is immutable after creation and safe for concurrent use.
type Registry struct {
	commands map[string]Command
	readOnly bool
}

// NewRegistry creates a registry holding all commands.
func NewRegistry(opts Options) *Registry {
	commands := make(map[string]Command, len(commandTable))
	for _, c := range commandTable {
		commands[c.Name] = c
	}
	return &Registry{
		commands: commands,
		readOnly: opts.ReadOnly,
	}
}

// Lookup finds a command by name, ignoring case.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.commands[strings.ToLower(name)]
	return c, ok
}

// Commands returns all commands sorted by name.
func (r *Registry) Commands() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ReadOnly reports whether the registry refuses Write commands.
func (r *Registry) ReadOnly() bool {
	return r.readOnly
}

// Execute runs a raw command line. raw[0] is the command name.
func (r *Registry) Execute(gw Gateway, raw []string) (Response, error) {
	if len(raw) == 0 {
		return nil, newError(KindArity, nil, "missing command name")
	}

	cmd, ok := r.Lookup(raw[0])
	if !ok {
		return nil, newError(KindUnknownCommand, nil, "unknown command %q", raw[0])
	}
	if cmd.Permission == Write && r.readOnly {
		commandCounter(cmd.Name, "refused").Inc()
		return nil, newError(KindPermission, nil, "%s is a write command, but the store is read-only", cmd.Name)
	}

	start := time.Now()
	resp, err := cmd.Handler(gw, raw[1:])
	commandDuration(cmd.Name).UpdateDuration(start)

	if err != nil {
		commandCounter(cmd.Name, "error").Inc()
		log.Debugf("%s failed: %v", cmd.Name, err)
		return nil, err
	}
	commandCounter(cmd.Name, "ok").Inc()
	return resp, nil
}
