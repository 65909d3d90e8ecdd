package version

// Version is the release version of linkcheck
const Version = "0.3.0"
