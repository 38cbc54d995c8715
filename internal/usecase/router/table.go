package router

// Table is an immutable symbol to shard assignment.
type Table struct {
	shards       map[string]int
	defaultShard int
}

// NewTable copies shards into a new Table.
func NewTable(shards map[string]int, defaultShard int) *Table {
	t := &Table{shards: make(map[string]int, len(shards)), defaultShard: defaultShard}
	for symbol, shard := range shards {
		t.shards[symbol] = shard
	}
	return t
}

// Shard returns the shard of symbol, the default shard when unmapped.
func (t *Table) Shard(symbol string) int {
	if shard, ok := t.shards[symbol]; ok {
		return shard
	}
	return t.defaultShard
}

// With returns a copy of t with symbol assigned to shard.
func (t *Table) With(symbol string, shard int) *Table {
	next := NewTable(t.shards, t.defaultShard)
	next.shards[symbol] = shard
	return next
}

// Symbols returns a copy of the explicit assignments.
func (t *Table) Symbols() map[string]int {
	out := make(map[string]int, len(t.shards))
	for symbol, shard := range t.shards {
		out[symbol] = shard
	}
	return out
}
