package policies

import (
	"runtime"
	"strings"
)

const (
	PlatformLinux   = "linux"
	PlatformMacOS   = "macos"
	PlatformIOS     = "ios"
	PlatformWindows = "windows"
	PlatformAndroid = "android"
)

var unixPlatforms = map[string]struct{}{
	PlatformLinux: {},
	PlatformMacOS: {},
	PlatformIOS:   {},
}

var x86Arches = map[string]struct{}{
	"x86_64": {},
	"amd64":  {},
	"i686":   {},
	"i386":   {},
}

// PlatformPolicy decides whether a target table condition such as
// "cfg(unix)" or "cfg(target_arch = \"arm64\")" applies to one platform.
// Matching is substring based; compound or negated conditions are not
// evaluated.
type PlatformPolicy struct {
	Platform   string
	Arch       string
	archTokens []string
}

func NewPlatformPolicy(platform string, arch string) PlatformPolicy {
	return PlatformPolicy{
		Platform:   strings.ToLower(strings.TrimSpace(platform)),
		Arch:       strings.ToLower(strings.TrimSpace(arch)),
		archTokens: archTokens(arch),
	}
}

func (p PlatformPolicy) Matches(condition string) bool {
	cond := strings.ToLower(condition)
	if p.Platform != "" && strings.Contains(cond, p.Platform) {
		return true
	}
	if strings.Contains(cond, "unix") {
		if _, ok := unixPlatforms[p.Platform]; ok {
			return true
		}
	}
	for _, token := range p.archTokens {
		if strings.Contains(cond, token) {
			return true
		}
	}
	return false
}

// MatchesPlatform reports whether condition applies to platform on arch.
func MatchesPlatform(condition string, platform string, arch string) bool {
	return NewPlatformPolicy(platform, arch).Matches(condition)
}

// CurrentPlatform maps runtime.GOOS to the platform names used in
// target conditions.
func CurrentPlatform() string {
	return platformName(runtime.GOOS)
}

// CurrentArch returns the machine architecture of the running binary.
func CurrentArch() string {
	return runtime.GOARCH
}

func platformName(goos string) string {
	switch goos {
	case "darwin":
		return PlatformMacOS
	default:
		return goos
	}
}

// archTokens returns the raw architecture plus its cluster name, so
// "amd64" matches conditions written with "x86_64" or "x86".
func archTokens(arch string) []string {
	normalized := strings.ToLower(strings.TrimSpace(arch))
	if normalized == "" {
		return nil
	}
	tokens := []string{normalized}
	if _, ok := x86Arches[normalized]; ok {
		tokens = append(tokens, "x86")
	} else if strings.Contains(normalized, "arm") {
		tokens = append(tokens, "arm")
	}
	return tokens
}
