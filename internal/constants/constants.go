// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// AppName is the command name and the title used in log output
const AppName = "plantclimate"

// Version holds the application version information
const Version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH
