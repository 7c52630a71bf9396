// Package cmd implements the command-line interface of rgkv.
//
// The package is organized into several subpackages:
//
//   - serve: starts and configures the rgkv server
//   - kv: plain key-value operations (set, get, del, has, keys, mget)
//   - rg: the regex commands (keys, values, delete) plus seed and perf helpers
//   - util: shared flag and configuration handling (internal use)
//
// Every flag can also be set as an RGKV_<FLAG> environment variable or in a
// .env / .env.local file. See rgkv -help for a list of all commands.
package cmd
