package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateKeyErr() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

func TestTry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Try(func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestTry_RetriesDuplicateKey(t *testing.T) {
	calls := 0
	err := Try(func() error {
		calls++
		if calls < 3 {
			return duplicateKeyErr()
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestTry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Try(func() error {
		calls++
		return duplicateKeyErr()
	})
	assert.Error(t, err)
	assert.Equal(t, defaultMaxRetries+1, calls)
	assert.True(t, IsMongoDuplicateKeyError(err))
}

func TestTry_NoRetryOnOtherErrors(t *testing.T) {
	calls := 0
	sentinel := errors.New("connection reset")
	err := Try(func() error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestIsMongoDuplicateKeyError(t *testing.T) {
	assert.True(t, IsMongoDuplicateKeyError(duplicateKeyErr()))
	assert.True(t, IsMongoDuplicateKeyError(mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{{WriteError: mongo.WriteError{Code: 11000}}},
	}))
	assert.False(t, IsMongoDuplicateKeyError(mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}},
	}))
	assert.False(t, IsMongoDuplicateKeyError(errors.New("not a mongo error")))
	assert.False(t, IsMongoDuplicateKeyError(nil))
}
