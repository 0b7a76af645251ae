// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// defaultTTL is how long an entry survives in the memory tier before a
// repeat lookup falls through to the disk tier (or the network).
const defaultTTL = 10 * time.Minute

// memoryTier is the fast, process-local cache tier. It never persists
// anything: a process restart starts cold, and the disk tier behind it is
// what makes repeated resolutions of the same coordinate cheap across runs.
type memoryTier struct {
	artifacts *ttlcache.Cache[string, []byte]
	versions  *ttlcache.Cache[string, []string]
}

func newMemoryTier() *memoryTier {
	m := &memoryTier{
		artifacts: ttlcache.New[string, []byte](ttlcache.WithTTL[string, []byte](defaultTTL)),
		versions:  ttlcache.New[string, []string](ttlcache.WithTTL[string, []string](defaultTTL)),
	}
	go m.artifacts.Start()
	go m.versions.Start()
	return m
}

func (m *memoryTier) get(key string) ([]byte, bool) {
	item := m.artifacts.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (m *memoryTier) set(key string, value []byte) {
	m.artifacts.Set(key, value, ttlcache.DefaultTTL)
}

func (m *memoryTier) getVersions(key string) ([]string, bool) {
	item := m.versions.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (m *memoryTier) setVersions(key string, value []string) {
	m.versions.Set(key, value, ttlcache.DefaultTTL)
}

func (m *memoryTier) len() int {
	return m.artifacts.Len() + m.versions.Len()
}

func (m *memoryTier) close() {
	m.artifacts.Stop()
	m.versions.Stop()
}
