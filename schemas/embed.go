// Package schemas carries the JSON Schemas for files the CLI accepts:
// the config file and static monitor-layout files.
package schemas

import _ "embed"

//go:embed config.schema.json
var configSchema string

//go:embed monitor_layout.schema.json
var monitorLayoutSchema string

// Config returns the JSON Schema for config.json files.
func Config() string { return configSchema }

// MonitorLayout returns the JSON Schema for monitor-layout files.
func MonitorLayout() string { return monitorLayoutSchema }
