package mvcc

import (
	"strconv"
	"sync"
)

// VectorIndex is the store's similarity-search collaborator. It has no
// knowledge of transactions or visibility: the store computes the visible
// snapshot first and only ever asks the index about version keys drawn
// from that snapshot.
type VectorIndex interface {
	Put(versionKey string, vector []float32)
	TopK(queryVector []float32, whitelist []string, k int) []string
}

// Embedder turns text into a fixed-length vector. Must be deterministic
// for a given input within a run.
type Embedder interface {
	Embed(text string) []float32
}

// VersionedStore owns the per-record version chains, the transaction
// registry, and the mutual-exclusion discipline protecting both. It
// delegates embedding and top-k search to its two leaf collaborators.
type VersionedStore struct {
	mu   sync.Mutex
	cond *sync.Cond

	heads     map[string]*RecordVersion
	txns      map[uint64]*Transaction
	nextTxnID uint64

	index    VectorIndex
	embedder Embedder
}

// NewVersionedStore builds an empty store around the given collaborators.
func NewVersionedStore(index VectorIndex, embedder Embedder) *VersionedStore {
	s := &VersionedStore{
		heads:    make(map[string]*RecordVersion),
		txns:     make(map[uint64]*Transaction),
		index:    index,
		embedder: embedder,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Begin allocates a new transaction id and immediately materializes its
// snapshot, so that later reads see a stable view even if other
// transactions commit in between.
func (s *VersionedStore) Begin() uint64 {
	s.mu.Lock()
	s.nextTxnID++
	id := s.nextTxnID
	txn := &Transaction{ID: id, Status: Active}
	s.txns[id] = txn
	s.mu.Unlock()

	// The implicit read: k=0, query="" — materializes the snapshot and
	// discards the (necessarily empty) result.
	_, _ = s.Read(id, "", 0)
	return id
}

func versionKey(id string, txnID uint64) string {
	return id + "_" + strconv.FormatUint(txnID, 10)
}

// Insert fails with ErrAlreadyExists if a non-tombstoned head already
// exists for id.
func (s *VersionedStore) Insert(txnID uint64, id, value string) error {
	s.mu.Lock()

	txn, ok := s.txns[txnID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownTxn
	}
	if txn.Status != Active {
		s.mu.Unlock()
		return ErrNotActive
	}

	head := s.heads[id]
	if head != nil && !head.Deleted {
		s.mu.Unlock()
		return ErrAlreadyExists
	}

	v := &RecordVersion{
		ID:         id,
		VersionKey: versionKey(id, txnID),
		Value:      value,
		BeginTS:    txnID,
		EndTS:      infinity,
		Deleted:    false,
		CreatedBy:  txnID,
		Next:       head,
	}
	s.heads[id] = v
	if txn.Snapshot == nil {
		txn.Snapshot = make(map[string]*RecordVersion)
	}
	txn.Snapshot[id] = v
	s.index.Put(v.VersionKey, s.embedder.Embed(value))
	s.mu.Unlock()
	return nil
}

// Update blocks (without holding the store mutex between samples) while
// the current head was written by a still-ACTIVE transaction other than
// this one, then applies the first-committer-wins conflict check.
func (s *VersionedStore) Update(txnID uint64, id, value string) error {
	s.mu.Lock()

	txn, ok := s.txns[txnID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownTxn
	}
	if txn.Status != Active {
		s.mu.Unlock()
		return ErrNotActive
	}

	var head *RecordVersion
	for {
		head = s.heads[id]
		if head == nil {
			s.mu.Unlock()
			return ErrNotFound
		}
		if head.CreatedBy == txnID {
			break
		}
		creator := s.txns[head.CreatedBy]
		if creator == nil || creator.Status != Active {
			break
		}
		s.cond.Wait()
	}

	if prior, ok := txn.Snapshot[id]; ok && prior.VersionKey != head.VersionKey {
		s.mu.Unlock()
		return ErrWriteConflict
	}

	v := &RecordVersion{
		ID:         id,
		VersionKey: versionKey(id, txnID),
		Value:      value,
		BeginTS:    txnID,
		EndTS:      infinity,
		Deleted:    false,
		CreatedBy:  txnID,
		Next:       head,
	}
	s.heads[id] = v
	txn.Snapshot[id] = v
	s.index.Put(v.VersionKey, s.embedder.Embed(value))
	s.mu.Unlock()
	return nil
}

// Delete fails with ErrNotFound if no head exists for id, otherwise links a
// tombstone version as the new head and drops id from the transaction's
// own snapshot — the record is gone from the issuing transaction's point
// of view immediately, without waiting for commit.
func (s *VersionedStore) Delete(txnID uint64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.txns[txnID]
	if !ok {
		return ErrUnknownTxn
	}
	if txn.Status != Active {
		return ErrNotActive
	}

	head := s.heads[id]
	if head == nil {
		return ErrNotFound
	}

	tomb := &RecordVersion{
		ID:         id,
		VersionKey: versionKey(id, txnID),
		Value:      "",
		BeginTS:    txnID,
		EndTS:      infinity,
		Deleted:    true,
		CreatedBy:  txnID,
		Next:       head,
	}
	s.heads[id] = tomb
	delete(txn.Snapshot, id)
	return nil
}

// Read returns the transaction's materialized snapshot, filtered through
// the vector index's top-k whitelist scan. k == 0 is the implicit read
// performed by Begin: the snapshot is built and stored but nothing is
// requested from the index.
func (s *VersionedStore) Read(txnID uint64, query string, k int) ([]*RecordVersion, error) {
	s.mu.Lock()
	txn, ok := s.txns[txnID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrUnknownTxn
	}
	if txn.Snapshot == nil {
		s.buildSnapshotLocked(txn)
	}
	snapshot := txn.Snapshot
	s.mu.Unlock()

	if k == 0 {
		return nil, nil
	}

	whitelist := make([]string, 0, len(snapshot))
	byKey := make(map[string]*RecordVersion, len(snapshot))
	for _, v := range snapshot {
		whitelist = append(whitelist, v.VersionKey)
		byKey[v.VersionKey] = v
	}

	vec := s.embedder.Embed(query)
	keys := s.index.TopK(vec, whitelist, k)

	result := make([]*RecordVersion, 0, len(keys))
	for _, key := range keys {
		if v, ok := byKey[key]; ok {
			result = append(result, v)
		}
	}
	return result, nil
}

// buildSnapshotLocked implements the §4.2 visibility walk. Called with
// s.mu held.
func (s *VersionedStore) buildSnapshotLocked(txn *Transaction) {
	snapshot := make(map[string]*RecordVersion, len(s.heads))

	for id, head := range s.heads {
		for v := head; v != nil; v = v.Next {
			if v.CreatedBy == txn.ID && v.Deleted {
				// Own tombstone: record is gone from this transaction's
				// view entirely, regardless of earlier versions.
				break
			}

			if v.CreatedBy != txn.ID {
				if creator, ok := s.txns[v.CreatedBy]; ok && creator.Status == Active {
					continue
				}
			}

			if v.BeginTS <= txn.ID && txn.ID < v.EndTS && !v.Deleted {
				snapshot[id] = v
				break
			}
		}
	}

	txn.Snapshot = snapshot
}

// Commit walks every chain, end-caps each version superseded by one of
// this transaction's writes, and marks the transaction COMMITTED.
func (s *VersionedStore) Commit(txnID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.cond.Broadcast()

	txn, ok := s.txns[txnID]
	if !ok {
		return ErrUnknownTxn
	}

	for _, head := range s.heads {
		for v := head; v != nil; v = v.Next {
			if v.CreatedBy == txnID && v.Next != nil {
				v.Next.EndTS = v.BeginTS
			}
		}
	}

	txn.Status = Committed
	return nil
}

// Abort splices every version this transaction created out of its chain
// and marks the transaction ABORTED. A transaction may write the same id
// more than once before aborting (insert-then-update, update-then-update,
// delete-then-reinsert), stacking several of its own nodes at the head of
// that chain, so the head is peeled in a loop rather than checked once.
func (s *VersionedStore) Abort(txnID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.cond.Broadcast()

	txn, ok := s.txns[txnID]
	if !ok {
		return ErrUnknownTxn
	}

	for id, head := range s.heads {
		for head != nil && head.CreatedBy == txnID {
			head = head.Next
		}
		if head == nil {
			delete(s.heads, id)
			continue
		}
		s.heads[id] = head

		prev := head
		for cur := head.Next; cur != nil; cur = prev.Next {
			if cur.CreatedBy == txnID {
				prev.Next = cur.Next
				continue
			}
			prev = cur
		}
	}

	txn.Status = Aborted
	return nil
}

// TxnStatus reports a registered transaction's current status.
func (s *VersionedStore) TxnStatus(txnID uint64) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[txnID]
	if !ok {
		return 0, ErrUnknownTxn
	}
	return txn.Status, nil
}
