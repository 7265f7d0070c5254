// Package config loads an optional HCL search profile.
//
// A profile holds two optional blocks:
//
//	service {
//	  endpoint             = "ws://127.0.0.1:8000/ws"
//	  transport            = "websocket"
//	  insecure_skip_verify = false
//	}
//
//	search {
//	  start_url  = "https://en.wikipedia.org/wiki/${env.PF_START}"
//	  target_url = "https://en.wikipedia.org/wiki/Philosophy"
//	  max_nodes  = 200
//	  algorithm  = "bfs"
//	}
//
// Expressions are evaluated against an `env` object holding the process
// environment. LoadDotEnv may be called first to populate it from a .env file.
//
// Every attribute is optional. An attribute that is not written stays nil in
// the decoded Profile, which lets the caller layer command-line flags on top
// without confusing "unset" with a zero value.
package config
