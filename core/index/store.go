// Package index holds the in-memory vector index serving all reads.
// Builds swap a new immutable snapshot in atomically, so queries never
// observe a partially built index.
package index

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/skillsnav/atlas/model"
)

// Filter narrows a search to documents of the given types and with the
// given metadata values. A nil or zero filter matches every document.
type Filter struct {
	Types    []model.DocumentType
	Metadata map[string]string
}

func (f *Filter) matches(doc *model.Document) bool {
	if f == nil {
		return true
	}
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if doc.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Metadata) > 0 && !doc.Metadata.Matches(f.Metadata) {
		return false
	}
	return true
}

// snapshot is one immutable index generation. All fields are written
// once during Build and never mutated afterwards.
type snapshot struct {
	docs    map[uuid.UUID]*model.Document
	vectors map[uuid.UUID][]float32
	norms   map[uuid.UUID]float64
	order   []uuid.UUID
}

// Store is the in-memory vector index. Reads are lock-free against the
// current snapshot; builds are serialized and swap the snapshot
// atomically.
type Store struct {
	dim     int
	buildMu sync.Mutex
	current atomic.Pointer[snapshot]
}

// Hit is one scored search result.
type Hit struct {
	Document *model.Document
	Score    float64
}

// NewStore creates an empty store with a fixed vector dimension.
func NewStore(dimension int) *Store {
	s := &Store{dim: dimension}
	s.current.Store(&snapshot{
		docs:    map[uuid.UUID]*model.Document{},
		vectors: map[uuid.UUID][]float32{},
		norms:   map[uuid.UUID]float64{},
	})
	return s
}

// Dimension returns the fixed vector dimension.
func (s *Store) Dimension() int {
	return s.dim
}

// Len returns the number of documents in the current snapshot.
func (s *Store) Len() int {
	return len(s.current.Load().docs)
}

// Build replaces the whole index with a new generation. Documents and
// embeddings must cover exactly the same ids and every vector must have
// the store dimension. On error the previous generation keeps serving.
func (s *Store) Build(docs []*model.Document, embeddings map[uuid.UUID][]float32) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if len(docs) != len(embeddings) {
		return &model.InvalidInputError{Reason: "documents and embeddings do not cover the same ids"}
	}

	next := &snapshot{
		docs:    make(map[uuid.UUID]*model.Document, len(docs)),
		vectors: make(map[uuid.UUID][]float32, len(docs)),
		norms:   make(map[uuid.UUID]float64, len(docs)),
		order:   make([]uuid.UUID, 0, len(docs)),
	}

	for _, doc := range docs {
		vec, ok := embeddings[doc.ID]
		if !ok {
			return &model.InvalidInputError{Reason: "document " + doc.ID.String() + " has no embedding"}
		}
		if len(vec) != s.dim {
			return &model.DimensionMismatchError{Want: s.dim, Got: len(vec)}
		}
		if _, dup := next.docs[doc.ID]; dup {
			return &model.InvalidInputError{Reason: "duplicate document id " + doc.ID.String()}
		}
		next.docs[doc.ID] = doc
		next.vectors[doc.ID] = vec
		next.norms[doc.ID] = norm(vec)
		next.order = append(next.order, doc.ID)
	}

	sort.Slice(next.order, func(i, j int) bool {
		return next.order[i].String() < next.order[j].String()
	})

	s.current.Store(next)
	return nil
}

// Search returns the k most similar documents to the query vector under
// cosine similarity, ordered by score descending with ties broken by
// document id ascending.
func (s *Store) Search(query []float32, k int, filter *Filter) ([]Hit, error) {
	if len(query) != s.dim {
		return nil, &model.DimensionMismatchError{Want: s.dim, Got: len(query)}
	}
	if k <= 0 {
		return nil, nil
	}

	snap := s.current.Load()
	queryNorm := norm(query)
	if queryNorm == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, len(snap.order))
	for _, id := range snap.order {
		doc := snap.docs[id]
		if !filter.matches(doc) {
			continue
		}
		docNorm := snap.norms[id]
		if docNorm == 0 {
			continue
		}
		hits = append(hits, Hit{
			Document: doc,
			Score:    dot(query, snap.vectors[id]) / (queryNorm * docNorm),
		})
	}

	// The candidate slice is already id-ascending, and sort.SliceStable
	// keeps that order within equal scores.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Get returns the document with the given id from the current snapshot.
func (s *Store) Get(id uuid.UUID) (*model.Document, error) {
	doc, ok := s.current.Load().docs[id]
	if !ok {
		return nil, &model.NotFoundError{ID: id.String()}
	}
	return doc, nil
}

// All returns every document in the current snapshot in id order. The
// lexical signal scans this set, so keyword-only matches stay reachable
// even when the dense lanes miss them.
func (s *Store) All() []*model.Document {
	snap := s.current.Load()
	docs := make([]*model.Document, 0, len(snap.order))
	for _, id := range snap.order {
		docs = append(docs, snap.docs[id])
	}
	return docs
}

// Embedding returns the stored vector for a document id.
func (s *Store) Embedding(id uuid.UUID) ([]float32, error) {
	vec, ok := s.current.Load().vectors[id]
	if !ok {
		return nil, &model.NotFoundError{ID: id.String()}
	}
	return vec, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
