// Package application provides application initialization and dependency wiring.
// It combines the resolved configuration, the properties loader and the signing
// rules into a Plan the build toolchain can apply, keeping the main package
// focused on CLI parsing and output.
package application
