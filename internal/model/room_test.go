package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestApplyOccupancy(t *testing.T) {
    cases := []struct {
        name     string
        cur      RoomStatus
        occupied bool
        want     RoomStatus
    }{
        {"check-in from vacant", RoomVacant, true, RoomOccupied},
        {"check-in from clean", RoomClean, true, RoomOccupied},
        {"check-in from cleaning pending", RoomCleaningPending, true, RoomOccupied},
        {"checkout from occupied", RoomOccupied, false, RoomCheckoutPending},
        {"checkout from clean", RoomClean, false, RoomCheckoutPending},
        {"disabled stays disabled on check-in", RoomDisabled, true, RoomDisabled},
        {"disabled stays disabled on checkout", RoomDisabled, false, RoomDisabled},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, ApplyOccupancy(tc.cur, tc.occupied))
        })
    }
}

func TestStatusEditAllowed(t *testing.T) {
    assert.True(t, StatusEditAllowed(RoomVacant, RoomClean))
    assert.True(t, StatusEditAllowed(RoomClean, RoomDisabled))
    assert.True(t, StatusEditAllowed(RoomDisabled, RoomDisabled))
    assert.False(t, StatusEditAllowed(RoomDisabled, RoomClean))
    assert.False(t, StatusEditAllowed(RoomDisabled, RoomVacant))
}

func TestRoomStatusValid(t *testing.T) {
    for _, s := range []RoomStatus{RoomVacant, RoomOccupied, RoomCleaningPending, RoomCheckoutPending, RoomClean, RoomDisabled} {
        assert.True(t, s.Valid(), string(s))
    }
    assert.False(t, RoomStatus("DIRTY").Valid())
    assert.False(t, RoomStatus("").Valid())
}
