// Package builder provides a fluent, copy-on-write builder for assembling
// workflow graphs programmatically. Each With* method returns a new builder,
// so partially built workflows can be shared and branched safely
package builder
