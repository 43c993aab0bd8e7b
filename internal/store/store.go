// Package store holds all persisted entities in process memory for the
// lifetime of the process. Nothing survives a restart; durability is an
// explicit non-goal.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is constructed once at process start and threaded through request
// handlers. Entities are whole-object inserted and never mutated in place;
// the mutex covers map access under concurrent requests.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]Dataset
	insights map[string]Insight
	shares   map[string]Share
	seq      map[string]uint64
	nextSeq  uint64
}

// New returns an empty store. Tests build a fresh store per case for
// isolation.
func New() *Store {
	return &Store{
		datasets: make(map[string]Dataset),
		insights: make(map[string]Insight),
		shares:   make(map[string]Share),
		seq:      make(map[string]uint64),
	}
}

func (s *Store) CreateDataset(in InsertDataset) Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := Dataset{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Data:      in.Data,
		Columns:   in.Columns,
		RowCount:  in.RowCount,
		FileSize:  in.FileSize,
		CreatedAt: time.Now().UTC(),
	}
	s.datasets[d.ID] = d
	s.nextSeq++
	s.seq[d.ID] = s.nextSeq
	return d
}

func (s *Store) GetDataset(id string) (Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.datasets[id]
	return d, ok
}

// ListDatasets returns all datasets, newest first.
func (s *Store) ListDatasets() []Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out
}

// DeleteDataset removes a dataset. Insights and shares referencing it are
// left in place; the back-reference is non-owning.
func (s *Store) DeleteDataset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return false
	}
	delete(s.datasets, id)
	delete(s.seq, id)
	return true
}

func (s *Store) CreateInsight(in InsertInsight) Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := Insight{
		ID:         uuid.NewString(),
		DatasetID:  in.DatasetID,
		Content:    in.Content,
		Confidence: in.Confidence,
		CreatedAt:  time.Now().UTC(),
	}
	s.insights[i.ID] = i
	s.nextSeq++
	s.seq[i.ID] = s.nextSeq
	return i
}

func (s *Store) GetInsight(id string) (Insight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.insights[id]
	return i, ok
}

// InsightsByDataset returns the insights linked to a dataset in creation
// order.
func (s *Store) InsightsByDataset(datasetID string) []Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Insight, 0)
	for _, i := range s.insights {
		if i.DatasetID == datasetID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return s.seq[out[a].ID] < s.seq[out[b].ID]
	})
	return out
}

func (s *Store) DeleteInsight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.insights[id]; !ok {
		return false
	}
	delete(s.insights, id)
	delete(s.seq, id)
	return true
}

func (s *Store) CreateShare(in InsertShare) Share {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := Share{
		ID:              uuid.NewString(),
		DatasetID:       in.DatasetID,
		ShareToken:      uuid.NewString(),
		AllowDownloads:  in.AllowDownloads,
		RequirePassword: in.RequirePassword,
		Password:        in.Password,
		CreatedAt:       time.Now().UTC(),
	}
	s.shares[sh.ID] = sh
	s.nextSeq++
	s.seq[sh.ID] = s.nextSeq
	return sh
}

func (s *Store) GetShare(id string) (Share, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shares[id]
	return sh, ok
}

// ShareByToken looks a share up by its opaque token, the external handle
// embedded in share URLs.
func (s *Store) ShareByToken(token string) (Share, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sh := range s.shares {
		if sh.ShareToken == token {
			return sh, true
		}
	}
	return Share{}, false
}

func (s *Store) SharesByDataset(datasetID string) []Share {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Share, 0)
	for _, sh := range s.shares {
		if sh.DatasetID == datasetID {
			out = append(out, sh)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return s.seq[out[a].ID] < s.seq[out[b].ID]
	})
	return out
}

func (s *Store) DeleteShare(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shares[id]; !ok {
		return false
	}
	delete(s.shares, id)
	delete(s.seq, id)
	return true
}
