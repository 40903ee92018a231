// Package version records the modelvault release version.
package version

// Version is stamped into every manifest as formatVersion and reported
// back when manifests are read. Sessions may override it for testing.
const Version = "0.3.0"
