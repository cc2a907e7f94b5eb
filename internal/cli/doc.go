// Package cli defines the Cobra command tree for the prodlink CLI. Each file
// registers one command or a small group of related ones (link and unlink,
// import/export/validate) with the root command. Commands delegate to the
// session and store packages and only handle flags and output formatting.
package cli
