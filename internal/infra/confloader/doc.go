// Package confloader loads configuration with koanf and watches the
// configuration file for changes.
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Values already present in the target struct
//
// Environment variables carry the HEALTHY_ prefix. A double underscore
// separates nested keys so that single underscores can stay inside a key:
// HEALTHY_GREETING__DEFAULT_NAME sets greeting.default_name.
package confloader
