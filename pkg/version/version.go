// Package version provides version information for the asset-prices application.
package version

// Version is the current version of the asset-prices application.
const Version = "0.3.1"

// AgentString returns the full agent string with versioning.
// Format: @terran-labs/asset-prices@v{version}
func AgentString() string {
	return "@terran-labs/asset-prices@v" + Version
}
