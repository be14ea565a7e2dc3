package linker

import (
	"sort"
	"strings"

	"github.com/ananya/fraudlens/backend/internal/domain"
)

// Match-key derivation shared by the brute-force and incremental strategies.
// Both compare entities through the same keys, so the two strategies cannot
// diverge on equality semantics. Empty values never produce a key: two users
// who both lack an email are not linked by that absence.

const (
	keyEmail   = "email"
	keyPhone   = "phone"
	keyAddress = "address"
	keyPayment = "payment"
	keyIP      = "ip"
	keyDevice  = "device"
)

func userMatchKeys(u domain.User) []string {
	var keys []string
	if v := strings.TrimSpace(u.Email); v != "" {
		keys = append(keys, keyEmail+"|"+v)
	}
	if v := strings.TrimSpace(u.Phone); v != "" {
		keys = append(keys, keyPhone+"|"+v)
	}
	if v := strings.TrimSpace(u.Address); v != "" {
		keys = append(keys, keyAddress+"|"+v)
	}
	if v := canonicalPaymentSet(u.PaymentMethods); v != "" {
		keys = append(keys, keyPayment+"|"+v)
	}
	return keys
}

func transactionMatchKeys(t domain.Transaction) []string {
	var keys []string
	if v := strings.TrimSpace(t.IP); v != "" {
		keys = append(keys, keyIP+"|"+v)
	}
	if v := strings.TrimSpace(t.DeviceID); v != "" {
		keys = append(keys, keyDevice+"|"+v)
	}
	return keys
}

// canonicalPaymentSet reduces a payment-method list to an order-insensitive
// canonical form so set equality is a plain string comparison.
func canonicalPaymentSet(methods []string) string {
	seen := make(map[string]struct{}, len(methods))
	cleaned := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		cleaned = append(cleaned, m)
	}
	if len(cleaned) == 0 {
		return ""
	}
	sort.Strings(cleaned)
	return strings.Join(cleaned, "\x1f")
}

func usersShareAttribute(a, b domain.User) bool {
	return keysIntersect(userMatchKeys(a), userMatchKeys(b))
}

func transactionsRelated(a, b domain.Transaction) bool {
	return keysIntersect(transactionMatchKeys(a), transactionMatchKeys(b))
}

func keysIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	for _, k := range b {
		if _, ok := set[k]; ok {
			return true
		}
	}
	return false
}
