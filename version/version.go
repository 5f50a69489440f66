package version

// Version is overridden at link time, e.g.
// -ldflags "-X github.com/imgtool/imgtool/version.Version=v0.3"
var Version = "unknown"

// GitCommit is the commit hash the binary was built from, set at link time.
var GitCommit = ""
