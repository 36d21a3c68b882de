// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package appraise

import (
	"sync"
	"time"

	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// Session is the single current-record slot owned by a presentation shell.
// A successful analysis replaces the record wholesale; a failed one leaves
// the previous record in place.
type Session struct {
	mu  sync.RWMutex
	rec *types.Appraisal
	at  time.Time
}

// Replace installs rec as the current record and returns the time it was
// stored, taken under the same lock as the write.
func (s *Session) Replace(rec *types.Appraisal) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	s.at = time.Now()
	return s.at
}

// Current returns the current record and when it was stored.
func (s *Session) Current() (*types.Appraisal, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec, s.at, s.rec != nil
}

// Clear discards the current record.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	s.at = time.Time{}
}
