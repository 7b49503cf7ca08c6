// Package config provides the runtime configuration for sectioncheck and
// the .sectioncheck project file that assigns standards, optional sections
// and ignore rules to document paths.
package config
