package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SergeyParamoshkin/bollywood/internal/model"
	"github.com/SergeyParamoshkin/bollywood/internal/store"
)

func TestFilterDoc(t *testing.T) {
	assert.Equal(t, bson.M{}, filterDoc(store.Filter{}))
	assert.Equal(t, bson.M{"category": "movies"}, filterDoc(store.Filter{Category: "movies"}))
	assert.Equal(t, bson.M{"tags": "x", "category": "trending"},
		filterDoc(store.Filter{Category: "trending", Tag: "x"}))
}

func TestSetDocOnlyPresentFields(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	title := "X"
	tags := []string{"a"}

	got := setDoc(&model.ArticlePatch{Title: &title, Tags: &tags}, now)

	assert.Equal(t, bson.M{"title": "X", "tags": []string{"a"}, "updatedAt": now}, got)
}

func TestSetDocEmptyPatch(t *testing.T) {
	now := time.Now()

	assert.Equal(t, bson.M{"updatedAt": now}, setDoc(&model.ArticlePatch{}, now))
}

func TestMalformedIDIsNotFound(t *testing.T) {
	s := New(nil, 0)
	title := "X"

	_, err := s.Update(context.Background(), "nope", &model.ArticlePatch{Title: &title})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), "nope"), store.ErrNotFound)
}

func TestConnectRequiresURI(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	assert.Error(t, err)
}

func TestWrapErrTimeouts(t *testing.T) {
	err := wrapErr("find", context.DeadlineExceeded)
	assert.ErrorIs(t, err, store.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = wrapErr("update", mongo.CommandError{Code: 50, Name: "MaxTimeMSExpired", Message: "operation exceeded time limit"})
	assert.ErrorIs(t, err, store.ErrTimeout)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)

	var cmdErr mongo.CommandError
	assert.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, int32(50), cmdErr.Code)
}

func TestWrapErrOther(t *testing.T) {
	cause := errors.New("connection reset")
	err := wrapErr("find", cause)

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, store.ErrTimeout)
	assert.Equal(t, "mongostore: find: connection reset", err.Error())
}
