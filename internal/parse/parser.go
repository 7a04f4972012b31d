// internal/parse/parser.go
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roommon/internal/model"
)

// Event is the tagged result of parsing one raw line from the control
// script. Exactly one concrete type is returned per line; a line that
// matches nothing becomes Unrecognized so operators still see it.
type Event interface {
	isEvent()
}

// PuzzleUpdate reports new status for one puzzle
type PuzzleUpdate struct {
	ID        string
	State     model.PuzzleState
	IP        string
	Timestamp time.Time
}

// LogLine is ordinary log output with a detected severity
type LogLine struct {
	Level string // "error", "warn", "info" or "debug"
}

// ServerReady signals that the script finished starting up
type ServerReady struct {
	Port int
}

// ClientSeen reports a client address observed in the script's access log
type ClientSeen struct {
	IP string
}

// Heartbeat is a periodic liveness line from the script
type Heartbeat struct {
	Uptime    time.Duration
	HasUptime bool
}

// Unrecognized is any line that matched no known pattern
type Unrecognized struct {
	Raw string
}

func (PuzzleUpdate) isEvent() {}
func (LogLine) isEvent()      {}
func (ServerReady) isEvent()  {}
func (ClientSeen) isEvent()   {}
func (Heartbeat) isEvent()    {}
func (Unrecognized) isEvent() {}

// Default patterns for the script's known output grammar. The puzzle and
// heartbeat patterns can be overridden from the config file when the
// script's protocol changes.
const (
	DefaultPuzzlePattern    = `^PUZZLE\s+(?P<id>\S+)\s+STATE=(?P<state>\S+)(?:\s+IP=(?P<ip>\S+))?(?:\s+T=(?P<ts>\d+))?\s*$`
	DefaultHeartbeatPattern = `^HEARTBEAT(?:\s+UPTIME=(?P<uptime>\d+))?\s*$`
)

var (
	// Puzzle announcements printed by the script as python dicts:
	// {'name': 'patchpanel', ... 'ip': '127.0.0.1'}
	puzzleDictRe = regexp.MustCompile(`\{'name':\s*'([^']+)',.*?'ip':\s*'([^']+)'`)

	// Registration line before the puzzle has an address
	puzzleRegRe = regexp.MustCompile(`Registering new puzzle\s+(\w+)`)

	// Startup banner
	serverReadyRe = regexp.MustCompile(`Serving at port (\d+)`)

	// HTTP access log: 172.25.208.1 - - [date] ...
	httpClientRe = regexp.MustCompile(`^(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\s+-\s+-`)

	// UDP handler: Received message from ('172.25.208.1', 5005)
	msgClientRe = regexp.MustCompile(`Received message from \('(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})',`)

	// Severity detection for plain log output
	errorLevelRe = regexp.MustCompile(`(?i)\b(error|fatal|fail|failed|exception|panic|traceback)\b`)
	warnLevelRe  = regexp.MustCompile(`(?i)\b(warn|warning|caution)\b`)
	infoLevelRe  = regexp.MustCompile(`(?i)\b(info)\b`)
	debugLevelRe = regexp.MustCompile(`(?i)\b(debug|trace)\b`)
)

// Parser converts raw script output lines into Events
type Parser struct {
	puzzleRe    *regexp.Regexp
	heartbeatRe *regexp.Regexp

	idIdx     int
	stateIdx  int
	ipIdx     int
	tsIdx     int
	uptimeIdx int
}

// Config holds pattern overrides; empty fields keep the defaults
type Config struct {
	PuzzlePattern    string
	HeartbeatPattern string
}

// New compiles the parser. Pattern overrides must be valid regular
// expressions with at least the named groups id and state (puzzle) — a
// bad override is a configuration error, not something to limp past.
func New(cfg Config) (*Parser, error) {
	puzzlePattern := cfg.PuzzlePattern
	if puzzlePattern == "" {
		puzzlePattern = DefaultPuzzlePattern
	}
	heartbeatPattern := cfg.HeartbeatPattern
	if heartbeatPattern == "" {
		heartbeatPattern = DefaultHeartbeatPattern
	}

	puzzleRe, err := regexp.Compile(puzzlePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid puzzle pattern: %w", err)
	}
	heartbeatRe, err := regexp.Compile(heartbeatPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid heartbeat pattern: %w", err)
	}

	p := &Parser{
		puzzleRe:    puzzleRe,
		heartbeatRe: heartbeatRe,
		idIdx:       puzzleRe.SubexpIndex("id"),
		stateIdx:    puzzleRe.SubexpIndex("state"),
		ipIdx:       puzzleRe.SubexpIndex("ip"),
		tsIdx:       puzzleRe.SubexpIndex("ts"),
		uptimeIdx:   heartbeatRe.SubexpIndex("uptime"),
	}
	if p.idIdx < 0 || p.stateIdx < 0 {
		return nil, fmt.Errorf("puzzle pattern must define named groups 'id' and 'state'")
	}
	return p, nil
}

// Parse matches one raw line against the known patterns. now is used as
// the update timestamp when the line carries none. Parse never fails:
// malformed fields degrade to Unknown/absent, and a line that matches
// nothing is returned as Unrecognized verbatim.
func (p *Parser) Parse(raw string, now time.Time) Event {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Unrecognized{Raw: raw}
	}

	if m := p.puzzleRe.FindStringSubmatch(line); m != nil {
		update := PuzzleUpdate{
			ID:        m[p.idIdx],
			State:     model.ParsePuzzleState(m[p.stateIdx]),
			Timestamp: now,
		}
		if p.ipIdx >= 0 {
			update.IP = m[p.ipIdx]
		}
		if p.tsIdx >= 0 && m[p.tsIdx] != "" {
			if secs, err := strconv.ParseInt(m[p.tsIdx], 10, 64); err == nil {
				update.Timestamp = time.Unix(secs, 0)
			}
		}
		return update
	}

	if m := p.heartbeatRe.FindStringSubmatch(line); m != nil {
		hb := Heartbeat{}
		if p.uptimeIdx >= 0 && m[p.uptimeIdx] != "" {
			if secs, err := strconv.ParseInt(m[p.uptimeIdx], 10, 64); err == nil {
				hb.Uptime = time.Duration(secs) * time.Second
				hb.HasUptime = true
			}
		}
		return hb
	}

	if m := puzzleDictRe.FindStringSubmatch(line); m != nil {
		return PuzzleUpdate{
			ID:        m[1],
			State:     model.StateActive,
			IP:        m[2],
			Timestamp: now,
		}
	}

	if m := puzzleRegRe.FindStringSubmatch(line); m != nil {
		// Address arrives in a later announcement
		return PuzzleUpdate{
			ID:        m[1],
			State:     model.StateIdle,
			Timestamp: now,
		}
	}

	if m := serverReadyRe.FindStringSubmatch(line); m != nil {
		port, _ := strconv.Atoi(m[1])
		return ServerReady{Port: port}
	}

	if m := httpClientRe.FindStringSubmatch(line); m != nil {
		return ClientSeen{IP: m[1]}
	}
	if m := msgClientRe.FindStringSubmatch(line); m != nil {
		return ClientSeen{IP: m[1]}
	}

	if level, ok := detectLevel(line); ok {
		return LogLine{Level: level}
	}

	return Unrecognized{Raw: raw}
}

// Format renders the update back into the canonical puzzle line form
func (u PuzzleUpdate) Format() string {
	var s strings.Builder
	fmt.Fprintf(&s, "PUZZLE %s STATE=%s", u.ID, u.State)
	if u.IP != "" {
		fmt.Fprintf(&s, " IP=%s", u.IP)
	}
	if !u.Timestamp.IsZero() {
		fmt.Fprintf(&s, " T=%d", u.Timestamp.Unix())
	}
	return s.String()
}

// detectLevel classifies plain log output by severity keywords
func detectLevel(line string) (string, bool) {
	switch {
	case errorLevelRe.MatchString(line):
		return "error", true
	case warnLevelRe.MatchString(line):
		return "warn", true
	case infoLevelRe.MatchString(line):
		return "info", true
	case debugLevelRe.MatchString(line):
		return "debug", true
	default:
		return "", false
	}
}
