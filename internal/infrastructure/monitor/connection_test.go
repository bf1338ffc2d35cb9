package monitor

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePinger struct {
	pingFn func() error
	size   int
}

func (p *fakePinger) Ping(context.Context) error { return p.pingFn() }
func (p *fakePinger) Size() (int, error)         { return p.size, nil }

func TestRefreshTracksBackendState(t *testing.T) {
	down := errors.New("connection refused")
	var fail bool
	p := &fakePinger{size: 3, pingFn: func() error {
		if fail {
			return down
		}
		return nil
	}}
	m := New("bolt", p, time.Minute, nil)

	m.Refresh()
	st := m.GetStatus()
	if !st.Online || st.Entries != 3 || st.Backend != "bolt" || st.LastCheck.IsZero() {
		t.Fatalf("status=%+v", st)
	}

	fail = true
	m.Refresh()
	st = m.GetStatus()
	if st.Online || m.IsOnline() || st.Error != down.Error() || st.Entries != 0 {
		t.Fatalf("status=%+v", st)
	}
}

func TestNilPingerIsOffline(t *testing.T) {
	m := New("memory", nil, 0, nil)
	m.Refresh()
	if m.IsOnline() {
		t.Fatal("monitor without a backend reported online")
	}
}

func TestStartAndStop(t *testing.T) {
	m := New("memory", &fakePinger{pingFn: func() error { return nil }}, time.Hour, nil)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if !m.IsOnline() {
		t.Fatal("Start should probe immediately")
	}
	m.Stop()
}
