package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
)

// fakeStore records every mutation the pipeline attempts.
type fakeStore struct {
	approved        []domain.Record
	approvedOrLater []domain.Record
	joined          []domain.RecordMentionRow
	fetchErr        error

	transferred        []int64
	markTransferredErr error

	lastSince time.Time

	inserted     []domain.AuxiliarRow
	insertErrFor map[string]bool
	published    []int64
	publishErr   error
}

var _ ports.RecordStore = (*fakeStore)(nil)

func (s *fakeStore) FetchApproved(context.Context) ([]domain.Record, error) {
	return s.approved, s.fetchErr
}

func (s *fakeStore) FetchApprovedOrLater(context.Context) ([]domain.Record, error) {
	return s.approvedOrLater, s.fetchErr
}

func (s *fakeStore) MarkTransferred(_ context.Context, id int64, _ time.Time) error {
	if s.markTransferredErr != nil {
		return s.markTransferredErr
	}
	s.transferred = append(s.transferred, id)
	return nil
}

func (s *fakeStore) TransferredWithMentions(_ context.Context, since time.Time) ([]domain.RecordMentionRow, error) {
	s.lastSince = since
	return s.joined, nil
}

func (s *fakeStore) Publish(_ context.Context, fn func(tx ports.PublishTx) error) error {
	if s.publishErr != nil {
		return s.publishErr
	}
	return fn(&fakeTx{store: s})
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) InsertAuxiliar(_ context.Context, row domain.AuxiliarRow) error {
	if t.store.insertErrFor[row.Name] {
		return errors.New("duplicate key")
	}
	t.store.inserted = append(t.store.inserted, row)
	return nil
}

func (t *fakeTx) MarkPublished(_ context.Context, id int64, _ time.Time) error {
	t.store.published = append(t.store.published, id)
	return nil
}

type copyCall struct {
	paths []string
	dir   string
}

// fakeChannel records remote operations instead of performing them.
type fakeChannel struct {
	mkdirErr error
	copyErr  error
	listErr  error
	listings map[string][]string

	mkdirs []string
	copies []copyCall
	lists  []string
}

var _ ports.TransferChannel = (*fakeChannel)(nil)

func (c *fakeChannel) MkdirAll(_ context.Context, remoteDir string) error {
	if c.mkdirErr != nil {
		return c.mkdirErr
	}
	c.mkdirs = append(c.mkdirs, remoteDir)
	return nil
}

func (c *fakeChannel) Copy(_ context.Context, localPaths []string, remoteDir string) error {
	if c.copyErr != nil {
		return c.copyErr
	}
	c.copies = append(c.copies, copyCall{paths: localPaths, dir: remoteDir})
	return nil
}

func (c *fakeChannel) List(_ context.Context, remoteDir string) ([]string, error) {
	c.lists = append(c.lists, remoteDir)
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.listings[remoteDir], nil
}

func (c *fakeChannel) Close() error { return nil }

// fakeLocator resolves selectors from a fixed map.
type fakeLocator struct {
	matches map[string][]string
	titles  map[string]string
}

var _ ports.ArtifactLocator = (*fakeLocator)(nil)

func (l *fakeLocator) Resolve(selector string) ([]string, error) {
	return l.matches[selector], nil
}

func (l *fakeLocator) InspectHTML(path string) (string, error) {
	return l.titles[path], nil
}
