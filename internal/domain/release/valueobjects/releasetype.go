package valueobjects

// ReleaseType classifies a release. Only major, minor and security releases
// are offered to remote installations as the latest version.
type ReleaseType string

const (
	ReleaseTypeMajor      ReleaseType = "major"
	ReleaseTypeMinor      ReleaseType = "minor"
	ReleaseTypeSecurity   ReleaseType = "security"
	ReleaseTypePrerelease ReleaseType = "prerelease"
	ReleaseTypeRestricted ReleaseType = "restricted"
)

var validReleaseTypes = map[ReleaseType]bool{
	ReleaseTypeMajor:      true,
	ReleaseTypeMinor:      true,
	ReleaseTypeSecurity:   true,
	ReleaseTypePrerelease: true,
	ReleaseTypeRestricted: true,
}

// PublicReleaseTypes lists the types eligible as the latest release.
var PublicReleaseTypes = []ReleaseType{ReleaseTypeMajor, ReleaseTypeMinor, ReleaseTypeSecurity}

func (t ReleaseType) String() string {
	return string(t)
}

func (t ReleaseType) IsValid() bool {
	return validReleaseTypes[t]
}

func (t ReleaseType) IsPublic() bool {
	return t == ReleaseTypeMajor || t == ReleaseTypeMinor || t == ReleaseTypeSecurity
}
