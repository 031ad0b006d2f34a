package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"transaction_api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const duplicateKeyCode = 11000

// uniqueKeyFields mirrors the compound unique index of TransactionIndexes.
var uniqueKeyFields = []string{
	"companyId", "userId", "walletId", "status", "asset",
	"assetType", "type", "subType", "externalId", "timestamp",
}

// MemoryCollection is an in-memory Collection used by tests and local runs
// without a Mongo server. It understands the subset of the filter dialect the
// repository emits: equality and the $eq, $gte, $lte operators.
type MemoryCollection struct {
	mu      sync.RWMutex
	docs    map[primitive.ObjectID]bson.M
	err     error
	deletes int
	updates int
}

func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{docs: make(map[primitive.ObjectID]bson.M)}
}

// WithError makes every subsequent call fail with err.
func (m *MemoryCollection) WithError(err error) *MemoryCollection {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// DeleteCount reports how many DeleteByID calls reached the collection.
func (m *MemoryCollection) DeleteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deletes
}

// UpdateCount reports how many UpdateByID calls reached the collection.
func (m *MemoryCollection) UpdateCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updates
}

func (m *MemoryCollection) Find(_ context.Context, filter bson.M, opts FindOptions) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	normalized, err := normalize(filter)
	if err != nil {
		return nil, err
	}

	var matched []bson.M
	for _, doc := range m.docs {
		if matches(doc, normalized) {
			matched = append(matched, doc)
		}
	}

	sortDocs(matched, opts.Sort)

	if opts.Skip >= int64(len(matched)) {
		matched = nil
	} else {
		matched = matched[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < int64(len(matched)) {
		matched = matched[:opts.Limit]
	}

	items := make([]*domain.Transaction, 0, len(matched))
	for _, doc := range matched {
		tx, err := decodeDoc(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, tx)
	}
	return items, nil
}

func (m *MemoryCollection) CountDocuments(_ context.Context, filter bson.M) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return 0, m.err
	}

	normalized, err := normalize(filter)
	if err != nil {
		return 0, err
	}

	var n int64
	for _, doc := range m.docs {
		if matches(doc, normalized) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryCollection) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	doc, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return decodeDoc(doc)
}

func (m *MemoryCollection) InsertOne(_ context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	doc, err := normalize(tx)
	if err != nil {
		return err
	}
	if _, exists := m.docs[tx.ID]; exists {
		return duplicateKeyError("_id_")
	}
	if m.violatesUnique(tx.ID, doc) {
		return duplicateKeyError("transaction_composite_unique")
	}

	m.docs[tx.ID] = doc
	return nil
}

func (m *MemoryCollection) UpdateByID(_ context.Context, id primitive.ObjectID, set bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.updates++

	current, ok := m.docs[id]
	if !ok {
		return nil
	}

	patch, err := normalize(set)
	if err != nil {
		return err
	}

	next := make(bson.M, len(current)+len(patch))
	for k, v := range current {
		next[k] = v
	}
	for k, v := range patch {
		next[k] = v
	}

	if m.violatesUnique(id, next) {
		return duplicateKeyError("transaction_composite_unique")
	}

	m.docs[id] = next
	return nil
}

func (m *MemoryCollection) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.deletes++

	delete(m.docs, id)
	return nil
}

func (m *MemoryCollection) violatesUnique(id primitive.ObjectID, doc bson.M) bool {
	key := uniqueKey(doc)
	for otherID, other := range m.docs {
		if otherID != id && uniqueKey(other) == key {
			return true
		}
	}
	return false
}

func uniqueKey(doc bson.M) string {
	parts := make([]string, len(uniqueKeyFields))
	for i, f := range uniqueKeyFields {
		parts[i] = fmt.Sprintf("%v", doc[f])
	}
	return strings.Join(parts, "\x00")
}

func duplicateKeyError(index string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Index:   0,
			Code:    duplicateKeyCode,
			Message: "E11000 duplicate key error collection: transactions index: " + index,
		}},
	}
}

// normalize round-trips v through BSON so stored documents and filters share
// the same value types (string, float64, int32, primitive.DateTime, ...).
func normalize(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeDoc(doc bson.M) (*domain.Transaction, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var tx domain.Transaction
	if err := bson.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func matches(doc, filter bson.M) bool {
	for key, cond := range filter {
		value, exists := doc[key]
		ops, isOps := operators(cond)
		if !isOps {
			if !exists || !equalValues(value, cond) {
				return false
			}
			continue
		}
		for op, operand := range ops {
			if !exists {
				return false
			}
			c, ok := compareValues(value, operand)
			if !ok {
				return false
			}
			switch op {
			case "$eq":
				if c != 0 {
					return false
				}
			case "$gte":
				if c < 0 {
					return false
				}
			case "$lte":
				if c > 0 {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

// operators reports whether cond is an operator document like {$gte: x}.
func operators(cond interface{}) (map[string]interface{}, bool) {
	out := map[string]interface{}{}
	switch c := cond.(type) {
	case bson.M:
		for k, v := range c {
			out[k] = v
		}
	case map[string]interface{}:
		for k, v := range c {
			out[k] = v
		}
	case primitive.D:
		for _, e := range c {
			out[e.Key] = e.Value
		}
	default:
		return nil, false
	}
	for k := range out {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return out, len(out) > 0
}

func equalValues(a, b interface{}) bool {
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b interface{}) (int, bool) {
	switch av := a.(type) {
	case primitive.DateTime:
		bv, ok := b.(primitive.DateTime)
		if !ok {
			return 0, false
		}
		return compareOrdered(int64(av), int64(bv)), true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case primitive.ObjectID:
		bv, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return strings.Compare(av.Hex(), bv.Hex()), true
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return compareOrdered(af, bf), true
	}
	return 0, false
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func sortDocs(docs []bson.M, order bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, e := range order {
			c, ok := compareValues(docs[i][e.Key], docs[j][e.Key])
			if !ok || c == 0 {
				continue
			}
			if dir, _ := toFloat(e.Value); dir < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
