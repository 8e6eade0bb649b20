package authz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type approvalKey struct {
	owner    string
	operator string
}

// Table is an in-memory Authorizer with role grants and operator approvals.
type Table struct {
	mu        sync.RWMutex
	members   map[Role]map[string]struct{}
	approvals map[approvalKey]struct{}
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		members:   make(map[Role]map[string]struct{}),
		approvals: make(map[approvalKey]struct{}),
	}
}

// Grant adds account to role.
func (t *Table) Grant(role Role, account string) {
	account = strings.TrimSpace(account)
	if account == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.members[role] == nil {
		t.members[role] = make(map[string]struct{})
	}
	t.members[role][account] = struct{}{}
}

// Revoke removes account from role.
func (t *Table) Revoke(role Role, account string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.members[role], strings.TrimSpace(account))
}

// SetApprovalForAll records whether operator may act on every holding of owner.
func (t *Table) SetApprovalForAll(owner, operator string, approved bool) {
	key := approvalKey{owner: strings.TrimSpace(owner), operator: strings.TrimSpace(operator)}
	t.mu.Lock()
	defer t.mu.Unlock()
	if approved {
		t.approvals[key] = struct{}{}
		return
	}
	delete(t.approvals, key)
}

// HasRole implements Authorizer.
func (t *Table) HasRole(_ context.Context, role Role, account string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.members[role][account]
	return ok, nil
}

// IsApprovedForAll implements Authorizer.
func (t *Table) IsApprovedForAll(_ context.Context, owner, operator string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.approvals[approvalKey{owner: owner, operator: operator}]
	return ok, nil
}

// Members lists the accounts holding role in sorted order.
func (t *Table) Members(role Role) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.members[role]))
	for account := range t.members[role] {
		out = append(out, account)
	}
	sort.Strings(out)
	return out
}

// Seed grants every role/account pair in grants.
func (t *Table) Seed(grants map[Role][]string) {
	for role, accounts := range grants {
		for _, account := range accounts {
			t.Grant(role, account)
		}
	}
}

// ParseGrants reads role grants written as "role=acct|acct;role=acct".
// Entries may also be passed pre-split, one "role=acct|acct" per element.
func ParseGrants(entries ...string) (map[Role][]string, error) {
	grants := make(map[Role][]string)
	for _, entry := range entries {
		for _, clause := range strings.Split(entry, ";") {
			clause = strings.TrimSpace(clause)
			if clause == "" {
				continue
			}
			name, accounts, ok := strings.Cut(clause, "=")
			if !ok {
				return nil, fmt.Errorf("role grant %q: expected role=accounts", clause)
			}
			role, known := ParseRole(name)
			if !known {
				return nil, fmt.Errorf("role grant %q: unknown role %q", clause, strings.TrimSpace(name))
			}
			for _, account := range strings.Split(accounts, "|") {
				account = strings.TrimSpace(account)
				if account == "" {
					continue
				}
				grants[role] = append(grants[role], account)
			}
		}
	}
	return grants, nil
}
