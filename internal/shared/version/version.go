// Package version provides utilities for semantic version comparison.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsValid reports whether version is a semantic version, with or without the "v" prefix.
func IsValid(version string) bool {
	return semver.IsValid(Normalize(version))
}

// Compare compares two versions as semver. The second result is false when
// either version is not valid semver and no ordering could be determined.
func Compare(a, b string) (int, bool) {
	na, nb := Normalize(a), Normalize(b)
	if !semver.IsValid(na) || !semver.IsValid(nb) {
		return 0, false
	}
	return semver.Compare(na, nb), true
}

// HasNewerVersion checks if latestVersion is newer than currentVersion using semver.
// An empty or non-semver current version always reports an update.
func HasNewerVersion(currentVersion, latestVersion string) bool {
	if latestVersion == "" {
		return false
	}
	if currentVersion == "" || !IsValid(currentVersion) {
		return true
	}
	cmp, ok := Compare(currentVersion, latestVersion)
	return ok && cmp < 0
}
