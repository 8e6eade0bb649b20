package asset

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/command"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

// ledger drives Decide and Apply the way the engine does.
type ledger struct {
	t     *testing.T
	state State
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	return &ledger{t: t, state: NewState()}
}

func (l *ledger) run(cmdType command.Type, payload any) (command.Decision, error) {
	l.t.Helper()
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		l.t.Fatalf("marshal payload: %v", err)
	}
	decision := Decide(l.state, command.Command{Type: cmdType, ActorID: "operator", PayloadJSON: payloadJSON}, fixedNow)
	if decision.Rejected() {
		r := decision.Rejections[0]
		return decision, apperrors.WithMetadata(apperrors.Code(r.Code), r.Message, r.Metadata)
	}
	next, err := Apply(l.state, decision.Events)
	if err != nil {
		l.t.Fatalf("apply %s: %v", cmdType, err)
	}
	l.state = next
	l.checkInvariants()
	return decision, nil
}

func (l *ledger) mustRun(cmdType command.Type, payload any) command.Decision {
	l.t.Helper()
	decision, err := l.run(cmdType, payload)
	if err != nil {
		l.t.Fatalf("%s rejected: %v", cmdType, err)
	}
	return decision
}

func (l *ledger) expectKind(cmdType command.Type, payload any, kind apperrors.Kind, sentinel error) {
	l.t.Helper()
	before := l.state.Clone()
	_, err := l.run(cmdType, payload)
	if err == nil {
		l.t.Fatalf("%s: expected %s failure", cmdType, kind)
	}
	if got := apperrors.KindOf(err); got != kind {
		l.t.Fatalf("%s: kind = %s, want %s (%v)", cmdType, got, kind, err)
	}
	if sentinel != nil && !errors.Is(err, sentinel) {
		l.t.Fatalf("%s: expected %v, got %v", cmdType, sentinel, err)
	}
	if !statesEqual(before, l.state) {
		l.t.Fatalf("%s: rejected command changed state", cmdType)
	}
}

func (l *ledger) balance(tokenID uint64, account string) string {
	b := l.state.BalanceOf(tokenID, account)
	return b.Dec()
}

func (l *ledger) total(tokenID uint64) string {
	l.t.Helper()
	a := l.asset(tokenID)
	return a.TotalShares.Dec()
}

func (l *ledger) asset(tokenID uint64) Asset {
	l.t.Helper()
	a, ok := l.state.Asset(tokenID)
	if !ok {
		l.t.Fatalf("asset %d does not exist", tokenID)
	}
	return a
}

func (l *ledger) checkInvariants() {
	l.t.Helper()
	for tokenID, a := range l.state.Assets {
		var sum uint256.Int
		for key, amount := range l.state.Balances {
			if key.TokenID == tokenID {
				sum.Add(&sum, &amount)
			}
		}
		if !sum.Eq(&a.TotalShares) {
			l.t.Fatalf("asset %d: total %s != balance sum %s", tokenID, a.TotalShares.Dec(), sum.Dec())
		}
		if a.TotalShares.Gt(&a.MaxShares) {
			l.t.Fatalf("asset %d: total %s exceeds cap %s", tokenID, a.TotalShares.Dec(), a.MaxShares.Dec())
		}
	}
}

func statesEqual(a, b State) bool {
	if a.LastTokenID != b.LastTokenID || len(a.Assets) != len(b.Assets) || len(a.Balances) != len(b.Balances) || len(a.KYC) != len(b.KYC) {
		return false
	}
	for k, v := range a.Assets {
		if b.Assets[k] != v {
			return false
		}
	}
	for k, v := range a.Balances {
		if b.Balances[k] != v {
			return false
		}
	}
	for k, v := range a.KYC {
		if b.KYC[k] != v {
			return false
		}
	}
	return true
}

// scenarioA creates asset 1: alice holds 100 of a 1000 cap.
func scenarioA(t *testing.T) *ledger {
	t.Helper()
	l := newLedger(t)
	l.mustRun(CommandTypeCreate, CreatePayload{To: "alice", Amount: "100", MaxShares: "1000", MetadataURI: "uri1"})
	return l
}

func TestScenarioACreateAsset(t *testing.T) {
	l := scenarioA(t)
	a := l.asset(1)
	if a.Status != StatusPending {
		t.Fatalf("status = %s, want Pending", a.Status)
	}
	if a.TotalShares.Dec() != "100" || a.MaxShares.Dec() != "1000" {
		t.Fatalf("unexpected shares total=%s max=%s", a.TotalShares.Dec(), a.MaxShares.Dec())
	}
	if l.balance(1, "alice") != "100" {
		t.Fatalf("alice balance = %s, want 100", l.balance(1, "alice"))
	}
}

func TestCreateEmitsMintedEvent(t *testing.T) {
	l := newLedger(t)
	decision := l.mustRun(CommandTypeCreate, CreatePayload{To: "alice", Amount: "007", MaxShares: "10", MetadataURI: " ipfs://x "})
	if len(decision.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(decision.Events))
	}
	evt := decision.Events[0]
	if evt.Type != EventTypeMinted || evt.EntityType != EntityTypeAsset || evt.EntityID != "1" || evt.ActorID != "operator" {
		t.Fatalf("unexpected envelope %+v", evt)
	}
	var p MintedPayload
	if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.Amount != "7" || p.MetadataURI != "ipfs://x" || p.TokenID != 1 {
		t.Fatalf("expected normalized payload, got %+v", p)
	}
	if !evt.Timestamp.Equal(fixedNow()) {
		t.Fatalf("unexpected timestamp %v", evt.Timestamp)
	}
}

func TestCreateAssignsIncreasingTokenIDs(t *testing.T) {
	l := newLedger(t)
	l.mustRun(CommandTypeCreate, CreatePayload{To: "alice", Amount: "1", MaxShares: "1", MetadataURI: "a"})
	l.mustRun(CommandTypeCreate, CreatePayload{To: "bob", Amount: "0", MaxShares: "5", MetadataURI: "b"})
	if l.state.LastTokenID != 2 {
		t.Fatalf("LastTokenID = %d, want 2", l.state.LastTokenID)
	}
	if l.total(2) != "0" {
		t.Fatal("expected zero-amount creation to succeed")
	}
}

func TestCreateValidation(t *testing.T) {
	l := newLedger(t)
	l.expectKind(CommandTypeCreate, CreatePayload{To: "alice", Amount: "1", MaxShares: "10"}, apperrors.KindInvalidInput, ErrInvalidMetadataURI)
	l.expectKind(CommandTypeCreate, CreatePayload{To: "alice", Amount: "0", MaxShares: "0", MetadataURI: "u"}, apperrors.KindInvalidInput, ErrInvalidCap)
	l.expectKind(CommandTypeCreate, CreatePayload{To: "alice", Amount: "11", MaxShares: "10", MetadataURI: "u"}, apperrors.KindInvalidInput, ErrAmountExceedsCap)
	l.expectKind(CommandTypeCreate, CreatePayload{To: " ", Amount: "1", MaxShares: "10", MetadataURI: "u"}, apperrors.KindInvalidInput, ErrInvalidAccount)
	l.expectKind(CommandTypeCreate, CreatePayload{To: "alice", Amount: "-1", MaxShares: "10", MetadataURI: "u"}, apperrors.KindInvalidInput, ErrInvalidAmount)
	l.expectKind(CommandTypeCreate, CreatePayload{To: "alice", Amount: "1", MaxShares: "1" + zeros(78), MetadataURI: "u"}, apperrors.KindInvalidInput, ErrInvalidAmount)
	if l.state.LastTokenID != 0 {
		t.Fatal("rejected creations must not consume token ids")
	}
}

func TestScenarioBMintAdditional(t *testing.T) {
	l := scenarioA(t)
	l.expectKind(CommandTypeMint, MintPayload{TokenID: 1, To: "bob", Amount: "950"}, apperrors.KindArithmetic, ErrCapExceeded)
	l.mustRun(CommandTypeMint, MintPayload{TokenID: 1, To: "bob", Amount: "900"})
	if got := l.total(1); got != "1000" {
		t.Fatalf("total = %s, want 1000", got)
	}
	if l.balance(1, "bob") != "900" {
		t.Fatalf("bob balance = %s, want 900", l.balance(1, "bob"))
	}
	l.expectKind(CommandTypeMint, MintPayload{TokenID: 1, To: "bob", Amount: "1"}, apperrors.KindArithmetic, ErrCapExceeded)
}

func TestMintValidation(t *testing.T) {
	l := scenarioA(t)
	l.expectKind(CommandTypeMint, MintPayload{TokenID: 9, To: "bob", Amount: "1"}, apperrors.KindNotFound, ErrAssetNotFound)
	l.expectKind(CommandTypeMint, MintPayload{TokenID: 1, To: "", Amount: "1"}, apperrors.KindInvalidInput, ErrInvalidAccount)
	max := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	l.expectKind(CommandTypeMint, MintPayload{TokenID: 1, To: "bob", Amount: max}, apperrors.KindArithmetic, ErrCapExceeded)
}

func TestScenarioCTransferRequiresCertified(t *testing.T) {
	l := scenarioA(t)
	l.expectKind(CommandTypeTransfer, TransferPayload{From: "alice", To: "bob", TokenID: 1, Amount: "50"}, apperrors.KindNotAllowedInState, ErrTransferNotAllowed)
}

func TestTransferBlockedInEveryNonCertifiedStatus(t *testing.T) {
	for _, path := range [][]Status{
		{},
		{StatusCertified, StatusInEscrow},
		{StatusCertified, StatusDisputed},
	} {
		l := scenarioA(t)
		for _, s := range path {
			l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: string(s)})
		}
		l.expectKind(CommandTypeTransfer, TransferPayload{From: "alice", To: "bob", TokenID: 1, Amount: "1"}, apperrors.KindNotAllowedInState, ErrTransferNotAllowed)
		l.expectKind(CommandTypeTransferBatch, TransferBatchPayload{From: "alice", To: "bob", TokenIDs: []uint64{1}, Amounts: []string{"1"}}, apperrors.KindNotAllowedInState, ErrTransferNotAllowed)
	}
}

func TestScenarioDCertifyTransferAndRejectFraudFromCertified(t *testing.T) {
	l := scenarioA(t)
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Certified"})
	decision := l.mustRun(CommandTypeTransfer, TransferPayload{From: "alice", To: "bob", TokenID: 1, Amount: "50"})
	if len(decision.Events) != 1 || decision.Events[0].Type != EventTypeTransferred {
		t.Fatalf("expected one transferred event, got %+v", decision.Events)
	}
	if l.balance(1, "alice") != "50" || l.balance(1, "bob") != "50" {
		t.Fatalf("balances alice=%s bob=%s, want 50/50", l.balance(1, "alice"), l.balance(1, "bob"))
	}
	l.expectKind(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Fraudulent"}, apperrors.KindInvalidTransition, ErrInvalidTransition)
	if l.asset(1).Status != StatusCertified {
		t.Fatal("failed transition must leave status unchanged")
	}
}

func TestScenarioEFraudFreezesAsset(t *testing.T) {
	l := scenarioA(t)
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Certified"})
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Disputed"})
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Fraudulent"})

	l.expectKind(CommandTypeBurn, BurnPayload{Account: "alice", TokenID: 1, Amount: "10"}, apperrors.KindFrozen, ErrFraudulentAsset)
	l.expectKind(CommandTypeMint, MintPayload{TokenID: 1, To: "bob", Amount: "1"}, apperrors.KindFrozen, ErrFraudulentAsset)
	l.expectKind(CommandTypeTransfer, TransferPayload{From: "alice", To: "bob", TokenID: 1, Amount: "1"}, apperrors.KindFrozen, ErrFraudulentAsset)
	for _, s := range Statuses() {
		l.expectKind(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: string(s)}, apperrors.KindFrozen, ErrFraudulentAsset)
	}
}

func TestUpdateStatusSucceedsIffEdgeExists(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusCertified, StatusInEscrow, StatusDisputed} {
		for _, to := range Statuses() {
			l := scenarioA(t)
			for _, step := range pathTo(from) {
				l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: string(step)})
			}
			_, err := l.run(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: string(to)})
			if IsTransitionAllowed(from, to) {
				if err != nil {
					t.Fatalf("%s -> %s: unexpected error %v", from, to, err)
				}
				if l.asset(1).Status != to {
					t.Fatalf("%s -> %s: status not applied", from, to)
				}
				continue
			}
			if apperrors.KindOf(err) != apperrors.KindInvalidTransition {
				t.Fatalf("%s -> %s: expected InvalidTransition, got %v", from, to, err)
			}
		}
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	l := scenarioA(t)
	l.expectKind(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 2, Status: "Certified"}, apperrors.KindNotFound, ErrAssetNotFound)
	l.expectKind(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Sold"}, apperrors.KindInvalidInput, ErrInvalidStatus)
	l.expectKind(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Pending"}, apperrors.KindInvalidTransition, ErrInvalidTransition)

	decision := l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "certified"})
	var p StatusUpdatedPayload
	if err := json.Unmarshal(decision.Events[0].PayloadJSON, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.From != StatusPending || p.To != StatusCertified {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestBurn(t *testing.T) {
	l := scenarioA(t)
	l.mustRun(CommandTypeBurn, BurnPayload{Account: "alice", TokenID: 1, Amount: "40"})
	if l.balance(1, "alice") != "60" || l.total(1) != "60" {
		t.Fatalf("unexpected state after burn: balance %s total %s", l.balance(1, "alice"), l.total(1))
	}
	l.expectKind(CommandTypeBurn, BurnPayload{Account: "alice", TokenID: 1, Amount: "61"}, apperrors.KindArithmetic, ErrInsufficientBalance)
	l.expectKind(CommandTypeBurn, BurnPayload{Account: "alice", TokenID: 7, Amount: "1"}, apperrors.KindNotFound, ErrAssetNotFound)
	l.expectKind(CommandTypeBurn, BurnPayload{Account: "", TokenID: 1, Amount: "1"}, apperrors.KindInvalidInput, ErrInvalidAccount)

	l.mustRun(CommandTypeBurn, BurnPayload{Account: "alice", TokenID: 1, Amount: "60"})
	a := l.asset(1)
	if !a.TotalShares.IsZero() || a.MaxShares.Dec() != "1000" {
		t.Fatal("an asset burned to zero must still exist with its cap")
	}
}

func TestBurnAllowedOutsideCertified(t *testing.T) {
	l := scenarioA(t)
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Certified"})
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "InEscrow"})
	l.mustRun(CommandTypeBurn, BurnPayload{Account: "alice", TokenID: 1, Amount: "1"})
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Disputed"})
	l.mustRun(CommandTypeBurn, BurnPayload{Account: "alice", TokenID: 1, Amount: "1"})
	if l.balance(1, "alice") != "98" {
		t.Fatalf("alice balance = %s, want 98", l.balance(1, "alice"))
	}
}

func TestBurnBatchIsAllOrNothing(t *testing.T) {
	l := newLedger(t)
	l.mustRun(CommandTypeCreate, CreatePayload{To: "alice", Amount: "10", MaxShares: "10", MetadataURI: "a"})
	l.mustRun(CommandTypeCreate, CreatePayload{To: "alice", Amount: "5", MaxShares: "10", MetadataURI: "b"})

	// Second element overdraws: nothing from the first element may apply.
	l.expectKind(CommandTypeBurnBatch, BurnBatchPayload{Account: "alice", TokenIDs: []uint64{1, 2}, Amounts: []string{"3", "6"}}, apperrors.KindArithmetic, ErrInsufficientBalance)
	// Repeated ids accumulate: 6 + 6 > 10.
	l.expectKind(CommandTypeBurnBatch, BurnBatchPayload{Account: "alice", TokenIDs: []uint64{1, 1}, Amounts: []string{"6", "6"}}, apperrors.KindArithmetic, ErrInsufficientBalance)
	l.expectKind(CommandTypeBurnBatch, BurnBatchPayload{Account: "alice", TokenIDs: []uint64{1, 3}, Amounts: []string{"1", "1"}}, apperrors.KindNotFound, ErrAssetNotFound)
	l.expectKind(CommandTypeBurnBatch, BurnBatchPayload{Account: "alice"}, apperrors.KindInvalidInput, ErrBatchEmpty)
	l.expectKind(CommandTypeBurnBatch, BurnBatchPayload{Account: "alice", TokenIDs: []uint64{1, 2}, Amounts: []string{"1"}}, apperrors.KindInvalidInput, ErrBatchLengthMismatch)

	decision := l.mustRun(CommandTypeBurnBatch, BurnBatchPayload{Account: "alice", TokenIDs: []uint64{1, 2, 1}, Amounts: []string{"3", "5", "2"}})
	if len(decision.Events) != 3 {
		t.Fatalf("expected one event per element, got %d", len(decision.Events))
	}
	if l.balance(1, "alice") != "5" || l.balance(2, "alice") != "0" {
		t.Fatalf("unexpected balances %s/%s", l.balance(1, "alice"), l.balance(2, "alice"))
	}
}

func TestTransferBatchIsAllOrNothing(t *testing.T) {
	l := newLedger(t)
	for i := 0; i < 3; i++ {
		l.mustRun(CommandTypeCreate, CreatePayload{To: "alice", Amount: "10", MaxShares: "100", MetadataURI: "u"})
	}
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Certified"})
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 2, Status: "Certified"})

	// Asset 3 is still Pending.
	l.expectKind(CommandTypeTransferBatch, TransferBatchPayload{From: "alice", To: "bob", TokenIDs: []uint64{1, 2, 3}, Amounts: []string{"1", "1", "1"}}, apperrors.KindNotAllowedInState, ErrTransferNotAllowed)
	l.expectKind(CommandTypeTransferBatch, TransferBatchPayload{From: "alice", To: "bob", TokenIDs: []uint64{1, 1}, Amounts: []string{"6", "5"}}, apperrors.KindArithmetic, ErrInsufficientBalance)
	l.expectKind(CommandTypeTransferBatch, TransferBatchPayload{From: "alice", To: "", TokenIDs: []uint64{1}, Amounts: []string{"1"}}, apperrors.KindInvalidInput, ErrInvalidAccount)
	l.expectKind(CommandTypeTransferBatch, TransferBatchPayload{From: "alice", To: "bob", TokenIDs: []uint64{1}, Amounts: []string{"x"}}, apperrors.KindInvalidInput, ErrInvalidAmount)

	decision := l.mustRun(CommandTypeTransferBatch, TransferBatchPayload{From: "alice", To: "bob", TokenIDs: []uint64{1, 2}, Amounts: []string{"4", "10"}})
	if len(decision.Events) != 2 {
		t.Fatalf("expected two transferred events, got %d", len(decision.Events))
	}
	if l.balance(1, "bob") != "4" || l.balance(2, "bob") != "10" || l.balance(2, "alice") != "0" {
		t.Fatal("unexpected balances after batch transfer")
	}
}

func TestTransferToSelfAndZeroAmount(t *testing.T) {
	l := scenarioA(t)
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Certified"})
	l.mustRun(CommandTypeTransfer, TransferPayload{From: "alice", To: "alice", TokenID: 1, Amount: "100"})
	decision := l.mustRun(CommandTypeTransfer, TransferPayload{From: "alice", To: "bob", TokenID: 1, Amount: "0"})
	if len(decision.Events) != 1 {
		t.Fatal("zero transfers still emit an event")
	}
	if l.balance(1, "alice") != "100" || l.balance(1, "bob") != "0" {
		t.Fatalf("unexpected balances alice=%s bob=%s", l.balance(1, "alice"), l.balance(1, "bob"))
	}
}

func TestTransferInsufficientBalance(t *testing.T) {
	l := scenarioA(t)
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Certified"})
	l.expectKind(CommandTypeTransfer, TransferPayload{From: "bob", To: "alice", TokenID: 1, Amount: "1"}, apperrors.KindArithmetic, ErrInsufficientBalance)
	l.expectKind(CommandTypeTransfer, TransferPayload{From: "alice", To: "bob", TokenID: 2, Amount: "1"}, apperrors.KindNotFound, ErrAssetNotFound)
}

func TestSetKYCIsRecordedButNotEnforced(t *testing.T) {
	l := scenarioA(t)
	decision := l.mustRun(CommandTypeSetKYC, SetKYCPayload{Account: "bob", Verified: false})
	if decision.Events[0].EntityType != EntityTypeAccount || decision.Events[0].EntityID != "bob" {
		t.Fatalf("unexpected kyc event %+v", decision.Events[0])
	}
	l.mustRun(CommandTypeSetKYC, SetKYCPayload{Account: "alice", Verified: true})
	if !l.state.KYC["alice"] || l.state.KYC["bob"] {
		t.Fatalf("unexpected kyc flags %v", l.state.KYC)
	}
	l.mustRun(CommandTypeUpdateStatus, UpdateStatusPayload{TokenID: 1, Status: "Certified"})
	l.mustRun(CommandTypeTransfer, TransferPayload{From: "alice", To: "bob", TokenID: 1, Amount: "1"})
	l.expectKind(CommandTypeSetKYC, SetKYCPayload{}, apperrors.KindInvalidInput, ErrInvalidAccount)
}

func TestDecideRejectsUnknownCommandAndBadPayload(t *testing.T) {
	decision := Decide(NewState(), command.Command{Type: "asset.explode", PayloadJSON: []byte(`{}`)}, fixedNow)
	if !decision.Rejected() || decision.Rejections[0].Code != string(apperrors.CodeCommandInvalid) {
		t.Fatalf("unexpected decision %+v", decision)
	}
	decision = Decide(NewState(), command.Command{Type: CommandTypeMint, PayloadJSON: []byte(`{"token_id":"one"}`)}, fixedNow)
	if !decision.Rejected() {
		t.Fatal("expected malformed payload rejection")
	}
}

func TestDecideDoesNotMutateState(t *testing.T) {
	l := scenarioA(t)
	before := l.state.Clone()
	payload, _ := json.Marshal(MintPayload{TokenID: 1, To: "bob", Amount: "5"})
	decision := Decide(l.state, command.Command{Type: CommandTypeMint, ActorID: "m", PayloadJSON: payload}, fixedNow)
	if decision.Rejected() {
		t.Fatalf("unexpected rejection %+v", decision.Rejections)
	}
	if !statesEqual(before, l.state) {
		t.Fatal("Decide must not mutate state")
	}
}

func pathTo(target Status) []Status {
	switch target {
	case StatusCertified:
		return []Status{StatusCertified}
	case StatusInEscrow:
		return []Status{StatusCertified, StatusInEscrow}
	case StatusDisputed:
		return []Status{StatusCertified, StatusDisputed}
	default:
		return nil
	}
}

func zeros(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '0'
	}
	return string(out)
}
