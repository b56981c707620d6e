// Package config loads the docsmith configuration from a YAML file under
// $XDG_CONFIG_HOME/docsmith and from environment variables.
package config
