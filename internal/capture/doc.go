// Package capture manages the camera: device abstraction, stream
// lifecycle, and hotplug monitoring for the configured video node.
package capture
