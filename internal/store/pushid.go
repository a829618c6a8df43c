package store

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

const base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

var (
	pushMu       sync.Mutex
	lastPushTime int64
	lastRandPart [12]byte
)

// NewPushKey returns a 20-character key that sorts by creation time:
// 8 characters of millisecond timestamp followed by 12 random characters.
// Keys generated within the same millisecond increment the random suffix
// so ordering stays strict for a single process.
func NewPushKey(t time.Time) string {
	ms := t.UnixMilli()

	pushMu.Lock()
	defer pushMu.Unlock()

	if ms == lastPushTime {
		// Same millisecond: bump the previous suffix
		for i := len(lastRandPart) - 1; i >= 0; i-- {
			if lastRandPart[i] < 61 {
				lastRandPart[i]++
				break
			}
			lastRandPart[i] = 0
		}
	} else {
		lastPushTime = ms
		for i := range lastRandPart {
			lastRandPart[i] = byte(rand.Intn(62))
		}
	}

	var b strings.Builder
	b.Grow(20)

	ts := ms
	var tsChars [8]byte
	for i := 7; i >= 0; i-- {
		tsChars[i] = base62[ts%62]
		ts /= 62
	}
	b.Write(tsChars[:])

	for _, r := range lastRandPart {
		b.WriteByte(base62[r])
	}
	return b.String()
}

// NewLocalID returns a locally-generated unique id of the form
// <prefix>_<unix-ms>_<9 random base36 chars>, used when the remote store
// cannot assign a key.
func NewLocalID(prefix string, t time.Time) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(t.UnixMilli(), 10))
	b.WriteByte('_')
	for i := 0; i < 9; i++ {
		b.WriteByte(base36[rand.Intn(36)])
	}
	return b.String()
}
