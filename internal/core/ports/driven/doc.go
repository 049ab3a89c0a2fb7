// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration (endpoint sources)
//   - Transport: Request/response exchange with the remote service
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Prompter: Interactive input. Without it, endpoint resolution stops
//     after the configured sources.
//   - IngestionHistory: Batch history. Without it, outcomes are only reported.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
