package kvstore

import (
	"context"
	"errors"
	"time"
)

// Recorder 存储操作指标
type Recorder interface {
	RecordStoreOperation(operation string, duration time.Duration, err error)
}

type instrumentedStore struct {
	Store
	recorder Recorder
}

// WithMetrics 为存储增加耗时与故障统计。业务上预期的结果 (不存在/已存在/版本冲突) 不计为故障
func WithMetrics(s Store, r Recorder) Store {
	return &instrumentedStore{Store: s, recorder: r}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrExists) || errors.Is(err, ErrVersionConflict) {
		err = nil
	}
	s.recorder.RecordStoreOperation(op, time.Since(start), err)
}

func (s *instrumentedStore) Get(ctx context.Context, key string) (*Entry, error) {
	start := time.Now()
	e, err := s.Store.Get(ctx, key)
	s.observe("get", start, err)
	return e, err
}

func (s *instrumentedStore) Create(ctx context.Context, key string, value []byte) (*Entry, error) {
	start := time.Now()
	e, err := s.Store.Create(ctx, key, value)
	s.observe("create", start, err)
	return e, err
}

func (s *instrumentedStore) Update(ctx context.Context, key string, value []byte, version int64) (*Entry, error) {
	start := time.Now()
	e, err := s.Store.Update(ctx, key, value, version)
	s.observe("update", start, err)
	return e, err
}
