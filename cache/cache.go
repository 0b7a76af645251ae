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

// Package cache implements a two-tier download cache that a
// downloader.Downloader implementation can consult before hitting the
// network: a short-lived in-memory tier backed by ttlcache, and a
// persistent disk tier backed by bbolt. The resolver does not use this
// package directly.
package cache

import (
	"fmt"
	"log/slog"
)

// Cache is the download cache. A nil *Cache is valid and behaves as an
// always-miss cache, so callers that do not configure one need no nil
// check of their own.
type Cache struct {
	memory *memoryTier
	disk   *diskTier
	log    *slog.Logger
}

// Open creates a Cache backed by a bbolt file at path, with an in-memory
// tier in front of it. If path is empty, the cache is memory-only.
func Open(path string, log *slog.Logger) (*Cache, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Cache{memory: newMemoryTier(), log: log}
	if path != "" {
		disk, err := openDiskTier(path)
		if err != nil {
			c.memory.close()
			return nil, err
		}
		c.disk = disk
	}
	return c, nil
}

// Close releases the resources held by the cache's tiers.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.memory.close()
	if c.disk != nil {
		return c.disk.close()
	}
	return nil
}

// Lookup returns the cached artifact bytes for a, checking the memory
// tier first and falling back to disk. A disk hit is promoted back into
// the memory tier.
func (c *Cache) Lookup(a Artifact) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	key := encodeKey(a)
	skey := string(key)
	if v, ok := c.memory.get(skey); ok {
		return v, true
	}
	if c.disk == nil {
		return nil, false
	}
	v, ok, err := c.disk.get(key)
	if err != nil {
		c.log.Warn("cache disk lookup failed", "error", err)
		return nil, false
	}
	if ok {
		c.memory.set(skey, v)
	}
	return v, ok
}

// Store records the artifact bytes for a in both tiers.
func (c *Cache) Store(a Artifact, value []byte) {
	if c == nil {
		return
	}
	key := encodeKey(a)
	c.memory.set(string(key), value)
	if c.disk == nil {
		return
	}
	if err := c.disk.set(key, value); err != nil {
		c.log.Warn("cache disk store failed", "error", err)
	}
}

// LookupVersions returns the cached version list for the GA coordinate
// identified by groupID/artifactID (version and classifier left blank in
// the underlying key, since a version listing is per-GA, not per-GAV).
func (c *Cache) LookupVersions(groupID, artifactID string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	key := encodeKey(Artifact{GroupID: groupID, ArtifactID: artifactID})
	skey := string(key)
	if v, ok := c.memory.getVersions(skey); ok {
		return v, true
	}
	if c.disk == nil {
		return nil, false
	}
	v, ok, err := c.disk.getVersions(key)
	if err != nil {
		c.log.Warn("cache disk version lookup failed", "error", err)
		return nil, false
	}
	if ok {
		c.memory.setVersions(skey, v)
	}
	return v, ok
}

// StoreVersions records the known versions of the GA coordinate
// identified by groupID/artifactID in both tiers.
func (c *Cache) StoreVersions(groupID, artifactID string, versions []string) {
	if c == nil {
		return
	}
	key := encodeKey(Artifact{GroupID: groupID, ArtifactID: artifactID})
	c.memory.setVersions(string(key), versions)
	if c.disk == nil {
		return
	}
	if err := c.disk.setVersions(key, versions); err != nil {
		c.log.Warn("cache disk version store failed", "error", err)
	}
}

// Stats reports the number of entries held in the memory tier, for
// callers that want to export it as an observability gauge.
func (c *Cache) Stats() string {
	if c == nil {
		return "cache: nil"
	}
	return fmt.Sprintf("memory tier: %d entries", c.memory.len())
}
