// cmd/leapsh is a line-edited REPL for building B-trees and running
// ad-hoc leapfrog joins over them interactively, grounded on haruDB's
// liner-based CLI loop (cmd/cli/main.go) but driving the engine directly
// in-process instead of talking to a server over a socket.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"leapjoin/btree"
	"leapjoin/internal/config"
	"leapjoin/key"
	"leapjoin/solver"
	"leapjoin/version"
)

type session struct {
	trees   map[string]*btree.Tree
	current string
	keyLen  int
	minKeys int
}

func main() {
	cfg := config.ParseLeapsh()
	if cfg.Version {
		fmt.Println(version.String())
		return
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	s := &session{
		trees:   map[string]*btree.Tree{},
		current: "default",
		keyLen:  cfg.KeyLen,
		minKeys: cfg.MinKeys,
	}
	s.trees[s.current] = btree.New(s.minKeys, s.keyLen)

	fmt.Println("leapsh - interactive B-tree / leapfrog solver shell")
	fmt.Println("Type 'help' for available commands")

	for {
		input, err := line.Prompt(fmt.Sprintf("leapsh[%s]> ", s.current))
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == "exit" || input == "quit" {
			break
		}
		s.dispatch(input)
	}

	if f, err := os.Create(cfg.HistoryFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func (s *session) dispatch(input string) {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("error: %v\n", r)
		}
	}()

	switch cmd {
	case "help":
		s.help()
	case "tree":
		s.cmdTree(args)
	case "use":
		s.cmdUse(args)
	case "trees":
		s.cmdTrees()
	case "insert":
		s.cmdInsert(args)
	case "delete":
		s.cmdDelete(args)
	case "seekgte":
		s.cmdSeek(args, false)
	case "seekgt":
		s.cmdSeek(args, true)
	case "list":
		s.cmdList()
	case "height":
		fmt.Println(s.tree().Height())
	case "memory":
		fmt.Printf("%d bytes\n", s.tree().MemoryUsage())
	case "join":
		s.cmdJoin(args)
	default:
		fmt.Printf("unknown command %q, type 'help'\n", cmd)
	}
}

func (s *session) help() {
	fmt.Println(`commands:
  tree <name> [minKeys] [keyLen]   create or recreate a tree
  use <name>                       switch the current tree
  trees                            list tree names
  insert <e1> <e2> ...             assoc a key into the current tree
  delete <e1> <e2> ...             dissoc a key from the current tree
  seekgte <e1> <e2> ...            seek_gte on a fresh cursor
  seekgt  <e1> <e2> ...            seek_gt on a fresh cursor
  list                             print all keys in order
  height                           print tree height
  memory                           print estimated deep memory usage
  join <numVars> <tree:ix,ix,...> <tree:ix,ix,...> ...
                                   run the solver, printing every solution
  exit / quit`)
}

func (s *session) tree() *btree.Tree {
	t, ok := s.trees[s.current]
	if !ok {
		panic(fmt.Sprintf("no such tree %q", s.current))
	}
	return t
}

func (s *session) cmdTree(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: tree <name> [minKeys] [keyLen]")
		return
	}
	name := args[0]
	minKeys, keyLen := s.minKeys, s.keyLen
	if len(args) > 1 {
		minKeys, _ = strconv.Atoi(args[1])
	}
	if len(args) > 2 {
		keyLen, _ = strconv.Atoi(args[2])
	}
	s.trees[name] = btree.New(minKeys, keyLen)
	s.current = name
	fmt.Printf("created tree %q (minKeys=%d, keyLen=%d)\n", name, minKeys, keyLen)
}

func (s *session) cmdUse(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: use <name>")
		return
	}
	if _, ok := s.trees[args[0]]; !ok {
		fmt.Printf("no such tree %q\n", args[0])
		return
	}
	s.current = args[0]
}

func (s *session) cmdTrees() {
	for name := range s.trees {
		fmt.Println(name)
	}
}

func (s *session) cmdInsert(args []string) {
	k := parseElements(args)
	existed := s.tree().Assoc(k, nil)
	fmt.Printf("inserted %s (existed=%v)\n", k, existed)
}

func (s *session) cmdDelete(args []string) {
	k := parseElements(args)
	existed := s.tree().Dissoc(k)
	fmt.Printf("deleted %s (existed=%v)\n", k, existed)
}

func (s *session) cmdSeek(args []string, strict bool) {
	k := parseElements(args)
	c := btree.NewCursor(s.tree())
	var got key.Key
	var ok bool
	if strict {
		got, ok = c.SeekGT(k)
	} else {
		got, ok = c.SeekGTE(k)
	}
	if !ok {
		fmt.Println("null")
		return
	}
	fmt.Println(got)
}

func (s *session) cmdList() {
	s.tree().Seq(func(k key.Key, v any) bool {
		fmt.Println(k)
		return true
	})
}

// cmdJoin parses "join <numVars> <tree:ix,ix,...>..." and runs the solver,
// printing every satisfying assignment until the search is exhausted.
func (s *session) cmdJoin(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: join <numVars> <tree:ix,ix,...> <tree:ix,ix,...> ...")
		return
	}
	numVars, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("bad numVars: %v\n", err)
		return
	}

	var constraints []*solver.Constraint
	var varIxes [][]int
	for _, spec := range args[1:] {
		parts := strings.SplitN(spec, ":", 2)
		if len(parts) != 2 {
			fmt.Printf("bad constraint spec %q, want tree:ix,ix,...\n", spec)
			return
		}
		tr, ok := s.trees[parts[0]]
		if !ok {
			fmt.Printf("no such tree %q\n", parts[0])
			return
		}
		ixes, err := parseIxes(parts[1])
		if err != nil {
			fmt.Printf("bad var mapping for %q: %v\n", spec, err)
			return
		}
		constraints = append(constraints, solver.NewConstraint(btree.NewCursor(tr)))
		varIxes = append(varIxes, ixes)
	}

	sv := solver.New(numVars, constraints, varIxes)
	count := 0
	for {
		sol, ok := sv.Next()
		if !ok {
			break
		}
		fmt.Println(sol)
		count++
	}
	fmt.Printf("%d solutions\n", count)
}

func parseIxes(s string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// parseElements turns each token into a key.Element: "true"/"false" become
// booleans, anything parseable as a float becomes a number, everything else
// is taken as a string literal.
func parseElements(args []string) key.Key {
	k := make(key.Key, len(args))
	for i, a := range args {
		switch a {
		case "true":
			k[i] = key.Bool(true)
		case "false":
			k[i] = key.Bool(false)
		default:
			if n, err := strconv.ParseFloat(a, 64); err == nil {
				k[i] = key.Num(n)
			} else {
				k[i] = key.Str(a)
			}
		}
	}
	return k
}
