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
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// Bucket names match the persistent cache layout named in the design this
// package implements: "workspace.disk" holds version lists, despite the
// name, and "workspace.artifacts" holds artifact/POM bytes.
var (
	artifactsBucket = []byte("workspace.artifacts")
	versionsBucket  = []byte("workspace.disk")
)

// diskTier is the persistent cache tier: a single bbolt file holding two
// buckets, one for downloaded POM/artifact bytes keyed by coordinate, one
// for the version lists returned by repository metadata lookups. Entries
// never expire here; staleness is bounded by the caller re-resolving, not
// by the cache.
type diskTier struct {
	db *bbolt.DB
}

func openDiskTier(path string) (*diskTier, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("cache: opening disk tier at %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(artifactsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(versionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: initializing disk tier buckets: %w", err)
	}
	return &diskTier{db: db}, nil
}

func (d *diskTier) get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(artifactsBucket).Get(key)
		if b == nil {
			return nil
		}
		value = append([]byte(nil), b...)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache: disk tier lookup: %w", err)
	}
	return value, value != nil, nil
}

func (d *diskTier) set(key, value []byte) error {
	err := d.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(artifactsBucket).Put(key, value)
	})
	if err != nil {
		return fmt.Errorf("cache: disk tier store: %w", err)
	}
	return nil
}

func (d *diskTier) getVersions(key []byte) ([]string, bool, error) {
	var raw []byte
	err := d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(versionsBucket).Get(key)
		if b == nil {
			return nil
		}
		raw = append([]byte(nil), b...)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache: disk tier version lookup: %w", err)
	}
	if raw == nil {
		return nil, false, nil
	}
	versions, err := decodeVersions(raw)
	if err != nil {
		return nil, false, err
	}
	return versions, true, nil
}

func (d *diskTier) setVersions(key []byte, versions []string) error {
	err := d.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(versionsBucket).Put(key, encodeVersions(versions))
	})
	if err != nil {
		return fmt.Errorf("cache: disk tier version store: %w", err)
	}
	return nil
}

func (d *diskTier) close() error {
	return d.db.Close()
}
