package integrity

import (
	"fmt"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

// Seal fills the integrity fields of evt, which must already carry its
// sequence number, linking it to prevHash.
func (k *Keyring) Seal(journal string, evt event.Event, prevHash string) (event.Event, error) {
	hash, err := event.EventHash(evt)
	if err != nil {
		return event.Event{}, fmt.Errorf("event hash: %w", err)
	}
	evt.Hash = hash
	evt.PrevHash = prevHash
	chainHash, err := event.ChainHash(evt, prevHash)
	if err != nil {
		return event.Event{}, fmt.Errorf("chain hash: %w", err)
	}
	evt.ChainHash = chainHash
	signature, keyID, err := k.SignChainHash(journal, chainHash)
	if err != nil {
		return event.Event{}, fmt.Errorf("sign chain hash: %w", err)
	}
	evt.Signature = signature
	evt.SignatureKeyID = keyID
	return evt, nil
}

// Verify recomputes the hashes of evt and checks its link to prevHash and its
// signature.
func (k *Keyring) Verify(journal string, evt event.Event, prevHash string) error {
	hash, err := event.EventHash(evt)
	if err != nil {
		return fmt.Errorf("event hash: %w", err)
	}
	if hash != evt.Hash {
		return fmt.Errorf("event %d hash mismatch", evt.Seq)
	}
	if evt.PrevHash != prevHash {
		return fmt.Errorf("event %d prev hash mismatch", evt.Seq)
	}
	chainHash, err := event.ChainHash(evt, prevHash)
	if err != nil {
		return fmt.Errorf("chain hash: %w", err)
	}
	if chainHash != evt.ChainHash {
		return fmt.Errorf("event %d chain hash mismatch", evt.Seq)
	}
	if err := k.VerifyChainHash(journal, evt.ChainHash, evt.Signature, evt.SignatureKeyID); err != nil {
		return fmt.Errorf("event %d: %w", evt.Seq, err)
	}
	return nil
}
