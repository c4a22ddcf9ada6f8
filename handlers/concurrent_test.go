// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/prompt-battle/models"
	"github.com/danielhkuo/prompt-battle/testutil"
)

// TestConcurrentSubmissionsSameDevice fires simultaneous submissions from a
// single device key. Exactly one is stored; every caller gets that one back.
func TestConcurrentSubmissionsSameDevice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	// the delay keeps every request past the replay check before any insert
	images := &testutil.FakeImageGenerator{Delay: 50 * time.Millisecond}
	handler := NewSubmissionHandler(db, cfg, images, &testutil.FakeTextGenerator{})

	const callers = 8
	var (
		wg      sync.WaitGroup
		created atomic.Int32
		mu      sync.Mutex
		ids     = map[models.ID]int{}
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/submit-image", models.SubmitRequest{
				Name:   "Ada",
				Prompt: fmt.Sprintf("a red fox, attempt %d", i),
			}, map[string]string{models.DeviceKeyHeader: testDeviceKey})
			w := httptest.NewRecorder()

			handler.SubmitImage(w, req)

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusOK:
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
				return
			}
			var resp models.SubmitResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Failed to decode response: %v", err)
				return
			}
			mu.Lock()
			ids[resp.ID]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 created response, got %d", created.Load())
	}
	if len(ids) != 1 {
		t.Errorf("Expected every caller to see the same submission, got %v", ids)
	}
	if n := testutil.CountRows(t, db, "image_round"); n != 1 {
		t.Errorf("Expected 1 image_round row, got %d", n)
	}
	if n := testutil.CountRows(t, db, "device_entry"); n != 1 {
		t.Errorf("Expected 1 device_entry row, got %d", n)
	}
}

// TestConcurrentSubmissionsDistinctDevices verifies that different devices
// never block each other out.
func TestConcurrentSubmissionsDistinctDevices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	handler := NewSubmissionHandler(db, cfg, &testutil.FakeImageGenerator{}, &testutil.FakeTextGenerator{})

	const devices = 10
	var wg sync.WaitGroup
	var created atomic.Int32

	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			path, call := "/submit-image", handler.SubmitImage
			if i%2 == 1 {
				path, call = "/submit-text", handler.SubmitText
			}
			req := testutil.MakeRequest("POST", path, models.SubmitRequest{
				Name:   fmt.Sprintf("Player %d", i),
				Prompt: "something creative and long enough",
			}, map[string]string{models.DeviceKeyHeader: fmt.Sprintf("device-key-%016d", i)})
			w := httptest.NewRecorder()

			call(w, req)

			if w.Code == http.StatusCreated {
				created.Add(1)
			} else {
				t.Errorf("Device %d: status %d: %s", i, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if int(created.Load()) != devices {
		t.Errorf("Expected %d created submissions, got %d", devices, created.Load())
	}
	if n := testutil.CountRows(t, db, "device_entry"); n != devices {
		t.Errorf("Expected %d device entries, got %d", devices, n)
	}
}
