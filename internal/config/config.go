// Package config parses flags and environment fallbacks for the cmd/
// tools, the same flag+env pattern the teacher's server config used —
// the engine packages (key, btree, solver) themselves take no
// configuration, per the "no environment variables" engine surface.
package config

import (
	"flag"
	"os"
	"strconv"
)

// PGJoin holds the settings for cmd/pgjoin: a Postgres DSN and the two
// queries whose result sets get leapfrog-joined.
type PGJoin struct {
	DSN         string
	LeftQuery   string
	RightQuery  string
	LeftKeyCol  int
	RightKeyCol int
	MinKeys     int
	Version     bool
}

// ParsePGJoin parses cmd/pgjoin's flags, falling back to PGJOIN_* env vars.
func ParsePGJoin() *PGJoin {
	cfg := &PGJoin{}
	flag.StringVar(&cfg.DSN, "dsn", envStr("PGJOIN_DSN", "postgres://localhost:5432/postgres"), "Postgres connection string")
	flag.StringVar(&cfg.LeftQuery, "left", envStr("PGJOIN_LEFT", ""), "left-hand SELECT, join-key column chosen by -left-key-col")
	flag.StringVar(&cfg.RightQuery, "right", envStr("PGJOIN_RIGHT", ""), "right-hand SELECT, join-key column chosen by -right-key-col")
	flag.IntVar(&cfg.LeftKeyCol, "left-key-col", envInt("PGJOIN_LEFT_KEY_COL", 0), "0-based join-key column index in the left result set")
	flag.IntVar(&cfg.RightKeyCol, "right-key-col", envInt("PGJOIN_RIGHT_KEY_COL", 0), "0-based join-key column index in the right result set")
	flag.IntVar(&cfg.MinKeys, "min-keys", envInt("PGJOIN_MIN_KEYS", 16), "B-tree min-keys parameter for the staging indexes")
	flag.BoolVar(&cfg.Version, "version", false, "print version information and exit")
	flag.Parse()
	return cfg
}

// Leapsh holds the settings for cmd/leapsh, the interactive tree/solver
// REPL: the tree shape to build and where to persist input history.
type Leapsh struct {
	MinKeys     int
	KeyLen      int
	HistoryFile string
	Version     bool
}

// ParseLeapsh parses cmd/leapsh's flags, falling back to LEAPSH_* env vars.
func ParseLeapsh() *Leapsh {
	cfg := &Leapsh{}
	flag.IntVar(&cfg.MinKeys, "min-keys", envInt("LEAPSH_MIN_KEYS", 2), "B-tree min-keys parameter")
	flag.IntVar(&cfg.KeyLen, "key-len", envInt("LEAPSH_KEY_LEN", 2), "key arity for trees created in the session")
	flag.StringVar(&cfg.HistoryFile, "history", envStr("LEAPSH_HISTORY", defaultHistoryFile()), "line-editor history file")
	flag.BoolVar(&cfg.Version, "version", false, "print version information and exit")
	flag.Parse()
	return cfg
}

func defaultHistoryFile() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".leapsh_history"
	}
	return dir + "/.leapsh_history"
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
