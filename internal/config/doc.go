// Package config provides configuration structures and utilities for the
// journal harvester. It defines the crawl, extraction, output, and remote
// storage options, their defaults, and the YAML configuration file loader.
package config
