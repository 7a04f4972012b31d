// internal/state/state.go
package state

import (
	"sort"
	"sync"
	"time"

	"roommon/internal/model"
	"roommon/internal/parse"
)

// State is the aggregate snapshot of everything the dashboard knows:
// server info, the latest status per puzzle, seen clients and the recent
// log window. There is exactly one writer (the update loop applying
// parsed events); readers take immutable snapshots. The mutex is held
// only across the brief mutation or copy, never across I/O.
type State struct {
	mu sync.Mutex

	server      model.ServerInfo
	serverReady bool

	puzzles map[string]model.PuzzleStatus
	clients map[string]struct{}
	logs    *LogBuffer

	scriptUptime    time.Duration
	hasScriptUptime bool

	staleAfter time.Duration
}

// PuzzleView is a puzzle status plus presentation flags derived at
// snapshot time
type PuzzleView struct {
	model.PuzzleStatus
	Stale bool
}

// Snapshot is an immutable copy of the aggregate state taken at one
// render tick. Safe to read from the view without locking.
type Snapshot struct {
	Server      model.ServerInfo
	ServerReady bool

	Puzzles  []PuzzleView // sorted by id
	Clients  []string     // sorted
	Logs     []model.LogEntry
	LogsSeen uint64 // total lines ever logged, including evicted

	ScriptUptime    time.Duration
	HasScriptUptime bool

	TakenAt time.Time
}

// New creates an empty aggregate state. staleAfter of 0 disables stale
// marking.
func New(logCapacity int, staleAfter time.Duration) *State {
	return &State{
		puzzles:    make(map[string]model.PuzzleStatus),
		clients:    make(map[string]struct{}),
		logs:       NewLogBuffer(logCapacity),
		staleAfter: staleAfter,
	}
}

// SetServerInfo records the host identity. Called once at attach; later
// calls are ignored so the start time survives script restarts.
func (s *State) SetServerInfo(info model.ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server.StartTime.IsZero() {
		s.server = info
	}
}

// Apply folds one parsed event into the state. Every line is appended to
// the log buffer first so operators always see the raw output, then the
// event's semantics are applied. Applying is idempotent per puzzle id:
// the newest timestamp wins and older updates are discarded.
func (s *State) Apply(entry model.LogEntry, ev parse.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs.Append(entry)

	switch ev := ev.(type) {
	case parse.PuzzleUpdate:
		s.applyPuzzle(ev)
	case parse.ClientSeen:
		s.clients[ev.IP] = struct{}{}
	case parse.ServerReady:
		s.serverReady = true
	case parse.Heartbeat:
		if ev.HasUptime {
			s.scriptUptime = ev.Uptime
			s.hasScriptUptime = true
		}
	case parse.LogLine, parse.Unrecognized:
		// already in the buffer, nothing else to track
	}
}

func (s *State) applyPuzzle(ev parse.PuzzleUpdate) {
	current, exists := s.puzzles[ev.ID]
	if exists && ev.Timestamp.Before(current.LastUpdated) {
		// Out-of-order update, the stored one is newer
		return
	}

	next := model.PuzzleStatus{
		ID:          ev.ID,
		State:       ev.State,
		IP:          ev.IP,
		LastUpdated: ev.Timestamp,
	}
	// A registration line carries no address; keep the one we know
	if next.IP == "" && exists {
		next.IP = current.IP
	}
	s.puzzles[ev.ID] = next
}

// AppendNotice adds an internal dashboard diagnostic to the log window,
// e.g. restart attempts. These lines never come from the script.
func (s *State) AppendNotice(now time.Time, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs.Append(model.LogEntry{
		Timestamp: now,
		Message:   msg,
		Stream:    "roommon",
	})
}

// ClearLogs empties the log window on operator request
func (s *State) ClearLogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs.Clear()
}

// Snapshot copies the current state for rendering. Puzzles are sorted by
// id and flagged stale when their last update is older than the
// configured window.
func (s *State) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	puzzles := make([]PuzzleView, 0, len(s.puzzles))
	for _, p := range s.puzzles {
		stale := s.staleAfter > 0 && now.Sub(p.LastUpdated) > s.staleAfter
		puzzles = append(puzzles, PuzzleView{PuzzleStatus: p, Stale: stale})
	}
	sort.Slice(puzzles, func(i, j int) bool { return puzzles[i].ID < puzzles[j].ID })

	clients := make([]string, 0, len(s.clients))
	for ip := range s.clients {
		clients = append(clients, ip)
	}
	sort.Strings(clients)

	return Snapshot{
		Server:          s.server,
		ServerReady:     s.serverReady,
		Puzzles:         puzzles,
		Clients:         clients,
		Logs:            s.logs.Lines(),
		LogsSeen:        s.logs.Total(),
		ScriptUptime:    s.scriptUptime,
		HasScriptUptime: s.hasScriptUptime,
		TakenAt:         now,
	}
}
