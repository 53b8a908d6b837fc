// Package config loads runtime configuration for the admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the admin API, including the prefix
//	-f string     path of the local session database
//	-t duration   per-request timeout ("10s")
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3001/api",
//	  "session_db_path": "session.db",
//	  "request_timeout": "10s"
//	}
package config
