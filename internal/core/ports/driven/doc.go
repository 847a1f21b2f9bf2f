// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentEngine: owns the outline and bookmark trees of one document
//   - BookmarkHandle: opaque reference into the bookmark tree
//   - Signals: document-loaded / force-update / outlines-changed /
//     destination-picked notifications
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - DocumentStore: persistent catalogue of documents. Only the CLI uses it;
//     the panel itself works against a single DocumentEngine.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driven
