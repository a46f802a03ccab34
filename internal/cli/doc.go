// Package cli implements the abpadmin command tree.
//
// NewRootCmd builds the cobra commands. Commands that talk to an ABP host
// build an App from the environment (ABP_* variables, optionally read from
// an .env file) the first time they need one; fake-server needs no ABP
// configuration. Structured input is read from YAML or JSON files and
// results are printed as YAML or JSON.
package cli
