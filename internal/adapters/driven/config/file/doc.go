// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage that keeps declaration order
//   - Watcher: reloads a ConfigStore when its file changes on disk
package file
