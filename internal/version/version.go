// ABOUTME: Version constants for the relay programs
// ABOUTME: Reported in startup logs
package version

const (
	// Version is the release of the relay programs
	Version = "0.3.0"

	// Product names the program family
	Product = "sndrelay"
)

// String returns the product and version as logged at startup
func String() string {
	return Product + " " + Version
}
