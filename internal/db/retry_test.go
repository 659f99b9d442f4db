package db

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateKeyError builds an error that IsMongoDuplicateKeyError recognizes.
func duplicateKeyError(key string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: fmt.Sprintf("E11000 duplicate key error collection: test.collection index: _id_ dup key: { : %q }", key),
	}}}
}

func TestWithRetries_SuccessfulFirstAttempt(t *testing.T) {
	var opCalled int
	err := WithRetries(func() error {
		opCalled++
		return nil
	}, 3, IsMongoDuplicateKeyError)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if opCalled != 1 {
		t.Errorf("Expected operation to be called 1 time, got %d", opCalled)
	}
}

func TestWithRetries_FailureNonDuplicateKey(t *testing.T) {
	var opCalled int
	expectedErr := errors.New("some other error")
	err := WithRetries(func() error {
		opCalled++
		return expectedErr
	}, 3, IsMongoDuplicateKeyError)

	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}
	if opCalled != 1 {
		t.Errorf("Expected operation to be called 1 time, got %d", opCalled)
	}
}

func TestWithRetries_ExhaustRetries(t *testing.T) {
	var opCalled int
	maxRetries := 3
	err := WithRetries(func() error {
		opCalled++
		return duplicateKeyError("A0A0A0A0A0")
	}, maxRetries, IsMongoDuplicateKeyError)

	if err == nil {
		t.Fatal("Expected a duplicate key error, got nil")
	}
	if !IsMongoDuplicateKeyError(err) {
		t.Errorf("Expected a Mongo duplicate key error, got %T: %v", err, err)
	}
	if opCalled != maxRetries+1 {
		t.Errorf("Expected operation to be called %d times, got %d", maxRetries+1, opCalled)
	}
}

func TestWithRetries_CollisionResolves(t *testing.T) {
	var opCalled int
	err := WithRetries(func() error {
		opCalled++
		if opCalled < 3 {
			return duplicateKeyError("A0A0A0A0A0")
		}
		return nil
	}, 3, IsMongoDuplicateKeyError)

	if err != nil {
		t.Fatalf("Expected no error as collision should resolve, got: %v", err)
	}
	if opCalled != 3 {
		t.Errorf("Expected operation to be called 3 times, got %d", opCalled)
	}
}

func TestIsMongoDuplicateKeyError_BulkWrite(t *testing.T) {
	err := mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{{
		WriteError: mongo.WriteError{Code: 11000, Message: "E11000 duplicate key error"},
	}}}
	if !IsMongoDuplicateKeyError(err) {
		t.Error("Expected bulk write duplicate key error to be recognized")
	}
	if IsMongoDuplicateKeyError(errors.New("plain")) {
		t.Error("Plain error should not be recognized as duplicate key")
	}
}
