// Package karago provides the version information for kara-go.
package karago

// Version is the current version of kara-go.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
