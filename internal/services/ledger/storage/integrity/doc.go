// Package integrity signs and verifies the journal's hash chain.
//
// Each stored event carries a content hash, a chain hash linking it to its
// predecessor, and an HMAC over the chain hash. Keys are derived per journal
// so a key leaked from one deployment cannot sign another's history.
package integrity
