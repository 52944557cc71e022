// Package config loads and validates pathline.json, the project
// configuration consumed by the pathline CLI and demo server.
package config
