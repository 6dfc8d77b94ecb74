// Package reembed refreshes candidate embeddings, typically after switching
// embedding models or bulk-editing profiles.
//
// Candidates are walked in batches, embedded with retry and exponential
// backoff, normalized to unit length and written back. A candidate whose
// stored embedding was built from the same profile text is skipped unless
// Config.Force is set.
package reembed
