// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory Store with switchable failures
type memStore struct {
	mu       sync.Mutex
	data     map[string]string
	failGet  bool
	failSet  bool
	setCalls int
	// failOnce makes the next Get of each listed key fail
	failOnce map[string]bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return "", false, errStoreDown
	}
	if s.failOnce[key] {
		delete(s.failOnce, key)
		return "", false, errStoreDown
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	if s.failSet {
		return errStoreDown
	}
	s.data[key] = value
	return nil
}

func (s *memStore) value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

func (s *memStore) failNextGet(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOnce == nil {
		s.failOnce = make(map[string]bool)
	}
	for _, k := range keys {
		s.failOnce[k] = true
	}
}

func (s *memStore) setFailures(get, set bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = get
	s.failSet = set
}

// fakeSubmitter simulates the submit endpoints, including per-device dedup
type fakeSubmitter struct {
	mu       sync.Mutex
	calls    atomic.Int32
	accepted map[string]Result
	nextID   int
	// err, when set, is returned instead of accepting
	err error
	// gate, when set, blocks every call until closed
	gate chan struct{}
	// entered is signalled when a call reaches the backend
	entered chan struct{}
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{accepted: make(map[string]Result), nextID: 1}
}

func (f *fakeSubmitter) Submit(ctx context.Context, deviceKey string, round Round, name, prompt string) (Result, error) {
	f.calls.Add(1)
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, &NetworkError{Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if prev, ok := f.accepted[deviceKey]; ok {
		return prev, nil
	}
	id := strconv.Itoa(f.nextID)
	f.nextID++
	var res Result
	if round == RoundImage {
		res = ImageResult{ID: id, ImagePath: "/gen/" + id + ".png"}
	} else {
		res = TextResult{ID: id, Response: "echo: " + prompt}
	}
	f.accepted[deviceKey] = res
	return res, nil
}

func (f *fakeSubmitter) acceptedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accepted)
}

// stubSubmitter returns a fixed answer
type stubSubmitter struct {
	res   Result
	err   error
	calls int
}

func (s *stubSubmitter) Submit(ctx context.Context, deviceKey string, round Round, name, prompt string) (Result, error) {
	s.calls++
	return s.res, s.err
}

// fakeReviewer simulates the list and score endpoints
type fakeReviewer struct {
	mu        sync.Mutex
	rounds    map[Round][]Submission
	listCalls int
	scoreCall int
	listErr   error
	scoreErr  error
	// gates block ListSubmissions for a round until closed
	gates map[Round]chan struct{}
}

func newFakeReviewer() *fakeReviewer {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeReviewer{
		rounds: map[Round][]Submission{
			RoundImage: {
				{ID: "7", Name: "Ada", Prompt: "a red fox", ImagePath: "generated_images/fox.png", CreatedAt: base.Add(2 * time.Minute)},
				{ID: "3", Name: "Linus", Prompt: "a penguin", ImagePath: "generated_images/penguin.png", CreatedAt: base},
			},
			RoundText: {
				{ID: "11", Name: "Grace", Prompt: "write a haiku", Response: "old pond", CreatedAt: base},
			},
		},
		gates: make(map[Round]chan struct{}),
	}
}

func (f *fakeReviewer) ListSubmissions(ctx context.Context, round Round) ([]Submission, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.gates[round]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]Submission(nil), f.rounds[round]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeReviewer) SaveScore(ctx context.Context, round Round, id string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scoreCall++
	if f.scoreErr != nil {
		return f.scoreErr
	}
	for i := range f.rounds[round] {
		if f.rounds[round][i].ID == id {
			v := score
			f.rounds[round][i].Score = &v
			return nil
		}
	}
	return &BackendRejectedError{StatusCode: 404, Detail: "Submission not found"}
}
