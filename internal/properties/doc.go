// Package properties reads key.properties-style files: one key=value pair per
// line, blank lines and '#' comments ignored. A file that does not exist loads
// as an empty Set so callers can treat local secrets as optional.
package properties
