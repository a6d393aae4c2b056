/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps a single configuration entity, stored under the "_c:"
prefix followed by the package name. Configuration is loaded from the genesis
file, from the "conf" section of the application state:

	"conf": {
		"rent": {...},
		"escrow": {...}
	}

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Application must be
terminated and configured correctly.
*/
package gconf
