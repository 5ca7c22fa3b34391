/*
 * MIT License
 *
 * Copyright (c) 2024-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package lease

import (
	"encoding/json"

	mapset "github.com/deckarep/golang-set/v2"
)

// AvailableEntry is a released identifier together with the version its
// releaser last observed. The slice order is the deterministic scan order of
// the recycling pass.
type AvailableEntry struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// ActiveEntry describes a currently leased identifier.
type ActiveEntry struct {
	// LeasedAt is the unix millisecond timestamp of the acquisition.
	LeasedAt int64 `json:"leasedAt"`
	// Version is the version the acquiring caller supplied.
	Version string `json:"version"`
}

// State is the per-document lease state persisted in storage. The available
// and active key sets are disjoint at rest; normalize re-asserts the
// invariant after every mutation, before persistence.
type State struct {
	Available []AvailableEntry       `json:"available"`
	Active    map[string]ActiveEntry `json:"active"`
}

func newState() *State {
	return &State{
		Active: make(map[string]ActiveEntry),
	}
}

// empty reports whether the state holds no identifier at all, in which case
// its storage key is removed instead of persisting an empty shell.
func (s *State) empty() bool {
	return len(s.Available) == 0 && len(s.Active) == 0
}

// knownIDs returns the union of the active and available identifier sets.
func (s *State) knownIDs() mapset.Set[string] {
	known := mapset.NewThreadUnsafeSet[string]()
	for id := range s.Active {
		known.Add(id)
	}
	for _, entry := range s.Available {
		known.Add(entry.ID)
	}
	return known
}

// normalize drops available entries shadowed by an active identifier and
// removes duplicate available entries, keeping the first occurrence.
func (s *State) normalize() {
	seen := mapset.NewThreadUnsafeSet[string]()
	kept := s.Available[:0]
	for _, entry := range s.Available {
		if _, active := s.Active[entry.ID]; active {
			continue
		}
		if !seen.Add(entry.ID) {
			continue
		}
		kept = append(kept, entry)
	}
	s.Available = kept
}

// upsertAvailable inserts the identifier into the available pool or overwrites
// the version of an existing entry.
func (s *State) upsertAvailable(id, version string) {
	for i, entry := range s.Available {
		if entry.ID == id {
			s.Available[i].Version = version
			return
		}
	}
	s.Available = append(s.Available, AvailableEntry{ID: id, Version: version})
}

func (s *State) encode() string {
	// marshaling a plain struct cannot fail
	bytea, _ := json.Marshal(s)
	return string(bytea)
}

// decodeState parses a persisted lease state. A malformed payload reads as
// nil; the caller reinitializes an empty state, per the corruption policy.
func decodeState(raw string) *State {
	state := newState()
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil
	}
	if state.Active == nil {
		state.Active = make(map[string]ActiveEntry)
	}
	return state
}
