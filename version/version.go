package version

import "strings"

// Version is the service version, bumped on release.
var Version = "0.2.1"

func GetCurrentVersion() string {
	return Version
}

// GetSchemaVersion returns the minor version the database schema is
// tied to, patch releases never change the schema.
func GetSchemaVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
