// Package config holds the agent's configuration: where the game
// writes its saves, how to reach the remote catalog, and where local
// state lives.
//
// Configuration is assembled in layers: defaults, then the YAML config
// file, then CLI flags. The struct is passed through the application
// via dependency injection rather than global state.
package config
