package state

import (
	"sync"
	"time"

	"github.com/five82/aurad/internal/aura"
)

// BannerKind is the severity of a status banner.
type BannerKind string

const (
	BannerInfo    BannerKind = "info"
	BannerSuccess BannerKind = "success"
	BannerWarning BannerKind = "warning"
	BannerError   BannerKind = "error"
)

// Banner is a transient user-facing notice. A zero Expires never expires.
type Banner struct {
	ID      uint64
	Message string
	Kind    BannerKind
	Expires time.Time
}

// Expired reports whether b should no longer be shown at now.
func (b Banner) Expired(now time.Time) bool {
	return !b.Expires.IsZero() && !now.Before(b.Expires)
}

// IsAlert reports whether b is a warning or error.
func (b Banner) IsAlert() bool {
	return b.Kind == BannerWarning || b.Kind == BannerError
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	// Dashboard is nil until fetched and whenever the backend has none.
	Dashboard       *aura.DashboardData
	DashboardLoaded bool

	// Logs are ordered most recent first.
	Logs       []string
	LogsLoaded bool

	Status *aura.SystemStatus

	Connected bool
	Probed    bool // at least one health probe has completed

	Banner *Banner
	Busy   bool

	Threshold    float64
	HasThreshold bool
	Decision     *aura.Decision

	LastUpdated time.Time
}

// Slice identifies an independently refreshed part of the snapshot.
type Slice int

const (
	SliceConnectivity Slice = iota
	SliceDashboard
	SliceLogs
	SliceStatus
	sliceCount
)

// Store coordinates concurrent updates to the snapshot.
//
// Refresh cycles may overlap. Each cycle takes a sequence number from Begin
// and every slice remembers the newest number applied to it, so results from
// an older cycle that arrive late are dropped instead of replacing newer data.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot

	seq     uint64
	applied [sliceCount]uint64

	bannerSeq uint64
	now       func() time.Time
}

// Begin starts a refresh cycle and returns its sequence number.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// accept reports whether a result from cycle seq may replace slice and, if
// so, records it. Callers hold s.mu.
func (s *Store) accept(slice Slice, seq uint64) bool {
	if seq < s.applied[slice] {
		return false
	}
	s.applied[slice] = seq
	return true
}

// SetConnected records the outcome of cycle seq's health probe.
func (s *Store) SetConnected(seq uint64, connected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(SliceConnectivity, seq) {
		return false
	}
	s.snapshot.Connected = connected
	s.snapshot.Probed = true
	return true
}

// SetDashboard replaces the dashboard snapshot; d may be nil (absent).
func (s *Store) SetDashboard(seq uint64, d *aura.DashboardData) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(SliceDashboard, seq) {
		return false
	}
	s.snapshot.Dashboard = cloneDashboard(d)
	s.snapshot.DashboardLoaded = true
	s.snapshot.LastUpdated = s.clock()
	return true
}

// SetLogs replaces the log slice. logs must already be most recent first.
func (s *Store) SetLogs(seq uint64, logs []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(SliceLogs, seq) {
		return false
	}
	s.snapshot.Logs = cloneStrings(logs)
	s.snapshot.LogsLoaded = true
	s.snapshot.LastUpdated = s.clock()
	return true
}

// SetStatus replaces the system status.
func (s *Store) SetStatus(seq uint64, st *aura.SystemStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accept(SliceStatus, seq) {
		return false
	}
	if st != nil {
		dup := *st
		s.snapshot.Status = &dup
	} else {
		s.snapshot.Status = nil
	}
	s.snapshot.LastUpdated = s.clock()
	return true
}

// ClearLogs empties the log slice after a successful remote clear. Cycles
// that started before the clear can no longer restore the old lines.
func (s *Store) ClearLogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.applied[SliceLogs] = s.seq
	s.snapshot.Logs = nil
	s.snapshot.LogsLoaded = true
}

// IsCurrent reports whether seq is still the newest cycle to have touched
// connectivity.
func (s *Store) IsCurrent(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return seq >= s.applied[SliceConnectivity]
}

// PostBanner replaces the current banner and returns its id. A ttl of zero
// keeps the banner until it is replaced or dismissed.
func (s *Store) PostBanner(kind BannerKind, message string, ttl time.Duration) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bannerSeq++
	b := &Banner{ID: s.bannerSeq, Message: message, Kind: kind}
	if ttl > 0 {
		b.Expires = s.clock().Add(ttl)
	}
	s.snapshot.Banner = b
	return b.ID
}

// ClearAlerts removes the current banner only if it is a warning or error.
// Success and info banners posted by concurrent actions are left alone.
func (s *Store) ClearAlerts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.snapshot.Banner; b != nil && b.IsAlert() {
		s.snapshot.Banner = nil
		return true
	}
	return false
}

// ClearBanner removes the banner with the given id if it is still shown.
func (s *Store) ClearBanner(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.snapshot.Banner; b != nil && b.ID == id {
		s.snapshot.Banner = nil
		return true
	}
	return false
}

// DismissBanner removes whatever banner is shown.
func (s *Store) DismissBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Banner = nil
}

// SetBusy marks whether a manual update is in flight.
func (s *Store) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Busy = busy
}

// AcquireBusy sets Busy and reports whether it was clear before.
func (s *Store) AcquireBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Busy {
		return false
	}
	s.snapshot.Busy = true
	return true
}

// SetThreshold records the governance threshold last read or written.
func (s *Store) SetThreshold(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Threshold = v
	s.snapshot.HasThreshold = true
}

// SetDecision records the latest simulation result.
func (s *Store) SetDecision(d *aura.Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d == nil {
		s.snapshot.Decision = nil
		return
	}
	dup := *d
	s.snapshot.Decision = &dup
}

// Snapshot returns a copy of the current snapshot. Expired banners are
// dropped here so every reader sees the same expiry.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b := s.snapshot.Banner; b != nil && b.Expired(s.clock()) {
		s.snapshot.Banner = nil
	}

	snap := s.snapshot
	snap.Dashboard = cloneDashboard(s.snapshot.Dashboard)
	snap.Logs = cloneStrings(s.snapshot.Logs)
	if st := s.snapshot.Status; st != nil {
		dup := *st
		snap.Status = &dup
	}
	if b := s.snapshot.Banner; b != nil {
		dup := *b
		snap.Banner = &dup
	}
	if d := s.snapshot.Decision; d != nil {
		dup := *d
		snap.Decision = &dup
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func cloneDashboard(d *aura.DashboardData) *aura.DashboardData {
	if d == nil {
		return nil
	}
	dup := *d
	if d.Sentiment != nil {
		sent := *d.Sentiment
		sent.Keywords = cloneStrings(d.Sentiment.Keywords)
		dup.Sentiment = &sent
	}
	if d.Price != nil {
		price := *d.Price
		dup.Price = &price
	}
	return &dup
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	dup := make([]string, len(in))
	copy(dup, in)
	return dup
}
