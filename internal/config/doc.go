// Package config loads the fathom-mcp runtime configuration.
//
// Values are resolved in increasing order of precedence: built-in defaults,
// an optional config file, then environment variables. Command-line flags
// are applied on top by the cmd package.
//
// The config file is read from $FATHOM_MCP_CONFIG when set, otherwise from
// $XDG_CONFIG_HOME/fathom-mcp (or ~/.config/fathom-mcp) as config.yaml or
// config.toml. The format is chosen by file extension.
//
// Example config.yaml:
//
//	api_key: "..."
//	summary_timeout: 20s
//	timezone: Europe/Berlin
//	elicitation: false
package config
