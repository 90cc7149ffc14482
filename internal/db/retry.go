package db

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

const defaultMaxRetries = 3

// Try executes op, retrying on duplicate key errors up to defaultMaxRetries
// times with a small incremental backoff. Used by catalog inserts where a
// unique index (vehicle plate) can collide; the inquiry paths never retry.
func Try(op Operation) error {
	var err error
	for attempt := 0; attempt <= defaultMaxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == defaultMaxRetries || !IsMongoDuplicateKeyError(err) {
			return err
		}
		time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
	}
	return err
}

// IsMongoDuplicateKeyError checks if an error from MongoDB is a duplicate key error (code 11000).
func IsMongoDuplicateKeyError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
