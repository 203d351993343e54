// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - JSON API server, Open-Meteo weather with air quality, manual TUI refresh
// 0.3.0 - Imaging windows, night ratings, configurable Moon model
// 0.2.0 - Comets and asteroids from orbital elements, YAML catalogs
// 0.1.0 - Initial release: visibility engine, object scoring, forecast table
