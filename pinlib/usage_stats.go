package pinlib

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// UsageStats tracks how a remote collaborator was used: how many
// requests have succeeded, how many have failed and when it was used
// last time.
type UsageStats struct {
	Name string

	mutex        sync.Mutex
	lastUsed     time.Time
	successCount uint64
	failureCount uint64
}

func (u *UsageStats) Used(err error) {
	now := time.Now()

	u.mutex.Lock()
	defer u.mutex.Unlock()

	u.lastUsed = now

	if err == nil {
		u.successCount++
	} else {
		u.failureCount++
	}
}

// Snapshot returns counters and the time of the last use.
func (u *UsageStats) Snapshot() (success, failure uint64, lastUsed time.Time) {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	return u.successCount, u.failureCount, u.lastUsed
}

func (u *UsageStats) MarshalJSON() ([]byte, error) {
	var lastUsedTime int64

	success, failure, lastUsed := u.Snapshot()

	if !lastUsed.IsZero() {
		lastUsedTime = lastUsed.Unix()
	}

	rawStruct := struct {
		Name         string `json:"name"`
		LastUsed     int64  `json:"last_used"`
		SuccessCount uint64 `json:"success_count"`
		FailureCount uint64 `json:"failure_count"`
	}{
		Name:         u.Name,
		LastUsed:     lastUsedTime,
		SuccessCount: success,
		FailureCount: failure,
	}

	return json.Marshal(&rawStruct)
}

// usageCountingIPLocator records every request which reached the
// collaborator. It has to be wrapped by a cache, not the other way
// around, so cache hits are not counted.
type usageCountingIPLocator struct {
	IPLocator

	stats *UsageStats
}

func (u usageCountingIPLocator) LookupIP(ctx context.Context, ip string) (IPLocation, error) {
	rv, err := u.IPLocator.LookupIP(ctx, ip)

	u.stats.Used(err)

	return rv, err
}

type usageCountingGeocoder struct {
	Geocoder

	stats *UsageStats
}

func (u usageCountingGeocoder) Search(ctx context.Context, query string) ([]Place, error) {
	rv, err := u.Geocoder.Search(ctx, query)

	u.stats.Used(err)

	return rv, err
}

func (u usageCountingGeocoder) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	rv, err := u.Geocoder.Reverse(ctx, lat, lon)

	u.stats.Used(err)

	return rv, err
}
