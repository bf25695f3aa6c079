package capability

import (
	"fmt"
	"runtime"
	"strings"
)

// OS scopes a List to an operating system family.
type OS int

const (
	// OSAll applies everywhere.
	OSAll OS = iota
	OSWindows
	OSLinux
	OSMacOSX
	OSDarwin
	OSFreeBSD
	OSSolaris
	// OSPOSIX covers every non-Windows system.
	OSPOSIX
	OSCygwin
)

var osNames = map[OS]string{
	OSAll:     "*",
	OSWindows: "Windows",
	OSLinux:   "Linux",
	OSMacOSX:  "MacOSX",
	OSDarwin:  "Darwin",
	OSFreeBSD: "FreeBSD",
	OSSolaris: "Solaris",
	OSPOSIX:   "POSIX",
	OSCygwin:  "Cygwin",
}

// String returns the name used in documents.
func (o OS) String() string {
	if name, ok := osNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OS(%d)", int(o))
}

// ParseOS converts a document value into an OS. The empty string, "*" and
// "all" select OSAll; matching is case-insensitive.
func ParseOS(s string) (OS, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return OSAll, nil
	}
	for o, name := range osNames {
		if strings.EqualFold(name, s) {
			return o, nil
		}
	}
	return OSAll, fmt.Errorf("%w: unknown OS %q", ErrInvalidArgument, s)
}

// CurrentOS maps the running platform to an OS.
func CurrentOS() OS {
	switch runtime.GOOS {
	case "windows":
		return OSWindows
	case "linux":
		return OSLinux
	case "darwin":
		return OSMacOSX
	case "freebsd":
		return OSFreeBSD
	case "solaris", "illumos":
		return OSSolaris
	}
	return OSPOSIX
}

// IsCompatible reports whether a list scoped to o applies on system. A system
// of OSAll accepts every list.
func (o OS) IsCompatible(system OS) bool {
	switch {
	case o == OSAll || system == OSAll || o == system:
		return true
	case o == OSWindows:
		return system == OSCygwin
	case o == OSDarwin:
		return system == OSMacOSX
	case o == OSPOSIX:
		return system != OSWindows
	}
	return false
}
