package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestNeedsCleaning(t *testing.T) {
    base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
    later := base.Add(2 * time.Hour)

    // Never cleaned: always pending, assigned or not.
    assert.True(t, NeedsCleaning(nil, nil))
    assert.True(t, NeedsCleaning(&base, nil))

    // Cleaned but never assigned: not pending.
    assert.False(t, NeedsCleaning(nil, &base))

    // Reassigned after the last cleaning: pending again.
    assert.True(t, NeedsCleaning(&later, &base))

    // Cleaned after the last assignment: done.
    assert.False(t, NeedsCleaning(&base, &later))

    // Tie goes to not-pending; the comparison is strict.
    assert.False(t, NeedsCleaning(&base, &base))
}
