// TTL-keyed store for job records and their latest progress snapshots.
// This is our data access layer for job state, keeping expiry concerns
// separate from pipeline logic. Single-process only: a multi-process
// deployment must back this with a shared store.
package jobstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/slidecast/slidecast-go/internal/models"
)

var (
	// ErrNotFound is returned when a job id has expired or never existed.
	ErrNotFound = errors.New("job not found")
	// ErrTerminal is returned when an update targets a job that already
	// reached a terminal status. Terminal states are sticky: a stage
	// that finishes after cancellation must not resurrect the job.
	ErrTerminal = errors.New("job is in a terminal state")
)

// Store holds jobs and progress snapshots under namespaced keys
// ("job:<id>", "progress:<id>") with a default TTL.
type Store struct {
	cache *cache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store whose entries expire after ttl.
func New(ttl time.Duration) *Store {
	s := &Store{
		cache: cache.New(ttl, 10*time.Minute),
		locks: make(map[string]*sync.Mutex),
	}
	// TTL expiry must also drop the job's lock entry, or the lock map
	// grows for the life of the process.
	s.cache.OnEvicted(func(key string, _ interface{}) {
		if strings.HasPrefix(key, "job:") {
			s.dropLock(strings.TrimPrefix(key, "job:"))
		}
	})
	return s
}

func jobKey(id string) string      { return "job:" + id }
func progressKey(id string) string { return "progress:" + id }

// jobLock returns the per-job mutex guarding read-modify-write
// sequences. Goroutines are preemptive, so a bare get/mutate/set
// would lose writes under concurrent access.
func (s *Store) jobLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// SaveJob stores a snapshot of the job, refreshing its TTL.
func (s *Store) SaveJob(job *models.Job) {
	s.cache.SetDefault(jobKey(job.ID), cloneJob(job))
}

// GetJob returns a copy of the stored job.
func (s *Store) GetJob(id string) (*models.Job, error) {
	v, ok := s.cache.Get(jobKey(id))
	if !ok {
		return nil, ErrNotFound
	}
	return cloneJob(v.(*models.Job)), nil
}

// UpdateJob applies fn to the stored job under the per-job lock and
// persists the result. Jobs already in a terminal state are left
// untouched and ErrTerminal is returned; fn may itself move the job
// into a terminal state.
func (s *Store) UpdateJob(id string, fn func(*models.Job) error) (*models.Job, error) {
	l := s.jobLock(id)
	l.Lock()
	defer l.Unlock()

	v, ok := s.cache.Get(jobKey(id))
	if !ok {
		// Don't keep a lock entry for an id that holds no job.
		s.dropLock(id)
		return nil, ErrNotFound
	}
	job := cloneJob(v.(*models.Job))
	if job.Status.Terminal() {
		return job, fmt.Errorf("job %s: %w", id, ErrTerminal)
	}
	if err := fn(job); err != nil {
		return nil, err
	}
	job.UpdatedAt = time.Now()
	s.cache.SetDefault(jobKey(id), cloneJob(job))
	return job, nil
}

// SaveProgress records the latest progress snapshot for a job.
func (s *Store) SaveProgress(p *models.ProgressUpdate) {
	cp := *p
	s.cache.SetDefault(progressKey(p.JobID), &cp)
}

// GetProgress returns the latest progress snapshot, if any.
func (s *Store) GetProgress(jobID string) (*models.ProgressUpdate, bool) {
	v, ok := s.cache.Get(progressKey(jobID))
	if !ok {
		return nil, false
	}
	cp := *(v.(*models.ProgressUpdate))
	return &cp, true
}

// Delete removes a job and its progress snapshot immediately. Normal
// cleanup happens via TTL expiry; this exists for maintenance jobs.
func (s *Store) Delete(id string) {
	s.cache.Delete(jobKey(id))
	s.cache.Delete(progressKey(id))
	s.dropLock(id)
}

func (s *Store) dropLock(id string) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

// JobIDs lists the ids of all unexpired jobs.
func (s *Store) JobIDs() []string {
	var ids []string
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, "job:") {
			ids = append(ids, strings.TrimPrefix(key, "job:"))
		}
	}
	return ids
}

// cloneJob copies the job and its result slice. Nested result values
// are treated as immutable once written.
func cloneJob(j *models.Job) *models.Job {
	cp := *j
	cp.SlideResults = make([]models.SlideResult, len(j.SlideResults))
	copy(cp.SlideResults, j.SlideResults)
	return &cp
}
