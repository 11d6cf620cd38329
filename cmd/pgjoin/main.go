// cmd/pgjoin runs two SELECT queries against a live Postgres database,
// loads each result set into a btree.Tree keyed on a caller-chosen join
// column, and drives a solver over the two resulting cursors to print the
// leapfrog join of the two relations — an external collaborator exercising
// the engine against data it never generated itself.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"leapjoin/btree"
	"leapjoin/internal/config"
	"leapjoin/key"
	"leapjoin/solver"
	"leapjoin/version"
)

func main() {
	cfg := config.ParsePGJoin()
	if cfg.Version {
		fmt.Println(version.String())
		return
	}
	if cfg.LeftQuery == "" || cfg.RightQuery == "" {
		log.Fatal("pgjoin: -left and -right queries are required")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DSN)
	if err != nil {
		log.Fatalf("pgjoin: %v", fmt.Errorf("connect to %q: %w", cfg.DSN, err))
	}
	defer conn.Close(ctx)

	leftTree, leftArity, err := loadRelation(ctx, conn, cfg.LeftQuery, cfg.LeftKeyCol, cfg.MinKeys)
	if err != nil {
		log.Fatalf("pgjoin: %v", fmt.Errorf("left relation: %w", err))
	}
	rightTree, rightArity, err := loadRelation(ctx, conn, cfg.RightQuery, cfg.RightKeyCol, cfg.MinKeys)
	if err != nil {
		log.Fatalf("pgjoin: %v", fmt.Errorf("right relation: %w", err))
	}

	// Column 0 in both trees is the join key (see loadRelation), so it is
	// global variable 0 in both constraints; every other column gets its
	// own private variable.
	numVars := 1 + (leftArity - 1) + (rightArity - 1)
	leftIxes := identityThenOffset(leftArity, 0, 1)
	rightIxes := identityThenOffset(rightArity, 0, leftArity)

	c1 := solver.NewConstraint(btree.NewCursor(leftTree))
	c2 := solver.NewConstraint(btree.NewCursor(rightTree))
	sv := solver.New(numVars, []*solver.Constraint{c1, c2}, [][]int{leftIxes, rightIxes})

	count := 0
	for {
		sol, ok := sv.Next()
		if !ok {
			break
		}
		fmt.Println(sol.String())
		count++
	}
	fmt.Printf("%d rows\n", count)
}

// identityThenOffset maps a relation's own column 0 (the join key) to
// sharedVar, and its remaining n-1 columns to consecutive variables
// starting at privateBase.
func identityThenOffset(n, sharedVar, privateBase int) []int {
	ixes := make([]int, n)
	ixes[0] = sharedVar
	for i := 1; i < n; i++ {
		ixes[i] = privateBase + i - 1
	}
	return ixes
}

// loadRelation runs query, and builds a Tree whose key's column 0 is the
// value of keyCol from the result row and whose remaining columns are the
// row's other values in their original order. Returns the tree and its key
// arity (1 + number of non-key columns).
func loadRelation(ctx context.Context, conn *pgx.Conn, query string, keyCol, minKeys int) (*btree.Tree, int, error) {
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("query %q: %w", query, err)
	}
	defer rows.Close()

	var tr *btree.Tree
	arity := 0
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}
		if tr == nil {
			arity = len(vals)
			tr = btree.New(minKeys, arity)
		}
		tr.Assoc(rowToKey(vals, keyCol), nil)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("query %q: %w", query, err)
	}
	if tr == nil {
		return nil, 0, fmt.Errorf("query %q: returned no rows, can't infer key arity", query)
	}
	return tr, arity, nil
}

// rowToKey builds a Key with vals[keyCol] first, followed by the rest of
// vals in their original order, each coerced from Postgres's driver value
// into a key.Element. This coercion — mapping heterogeneous database types
// onto the engine's bool/number/string element kinds — is explicitly a
// caller concern per the engine's scope, not something the core packages do.
func rowToKey(vals []any, keyCol int) key.Key {
	k := make(key.Key, len(vals))
	k[0] = coerce(vals[keyCol])
	i := 1
	for j, v := range vals {
		if j == keyCol {
			continue
		}
		k[i] = coerce(v)
		i++
	}
	return k
}

func coerce(v any) key.Element {
	switch x := v.(type) {
	case nil:
		return key.Least()
	case bool:
		return key.Bool(x)
	case int16:
		return key.Num(float64(x))
	case int32:
		return key.Num(float64(x))
	case int64:
		return key.Num(float64(x))
	case float32:
		return key.Num(float64(x))
	case float64:
		return key.Num(x)
	case string:
		return key.Str(x)
	case [16]byte: // uuid.UUID's underlying array layout
		return key.Str(fmt.Sprintf("%x", x))
	default:
		return key.Str(fmt.Sprint(x))
	}
}
