// Package signing derives release-signing credentials from a properties.Set.
// A Profile can only be built when keyAlias, keyPassword, storeFile and
// storePassword are all present and non-empty.
package signing
