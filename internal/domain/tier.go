package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrQuotaExceeded = errors.New("quota exceeded")

type Tier string

const (
	TierUnregistered Tier = "UNREGISTERED"
	TierFree         Tier = "FREE"
	TierPaid         Tier = "PAID"
)

const (
	// MaxPageSize caps a single fetch regardless of tier.
	MaxPageSize = 10

	// UsageWindow is how long a usage counter lives after its first increment.
	UsageWindow = 24 * time.Hour
)

// Identity is who a jobs request is attributed to: an authenticated user
// (Kind "user", Value = subject claim) or an anonymous caller (Kind "ip").
type Identity struct {
	Kind  string
	Value string
	Tier  Tier
}

func AnonymousIdentity(ip string) Identity {
	return Identity{Kind: "ip", Value: ip, Tier: TierUnregistered}
}

func UserIdentity(sub string, tier Tier) Identity {
	return Identity{Kind: "user", Value: sub, Tier: tier}
}

// UsageKey is the cache key usage is counted under for this identity.
func (i Identity) UsageKey() string {
	return fmt.Sprintf("job_count:%s:%s", i.Kind, i.Value)
}

// Limits holds the per-tier daily ceilings, injected from config.
type Limits struct {
	Unregistered int
	Free         int
	Paid         int
}

func (l Limits) Ceiling(t Tier) int {
	switch t {
	case TierPaid:
		return l.Paid
	case TierFree:
		return l.Free
	default:
		return l.Unregistered
	}
}

// Quota is the gate's snapshot attached to a request for the paginator:
// the usage key, the count at gate time, and the tier ceiling.
type Quota struct {
	Key     string
	Usage   int
	Ceiling int
}
