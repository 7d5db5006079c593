package version

// Current is the running build. Release builds set it with
// -ldflags "-X github.com/orris-inc/licenser/internal/shared/version.Current=v1.2.3".
var Current = "dev"
