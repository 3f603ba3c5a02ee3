//go:build !windows

package cli

// EnableANSI is a no-op outside windows.
func EnableANSI() {}
