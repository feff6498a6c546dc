package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
)

const (
	testLocalBase  = "/media/noticias_www"
	testRemoteBase = "/mnt/dtecflex-site-root"
	testRunDate    = "20250317"
)

func newTestPipeline(store *fakeStore, channel *fakeChannel, locator *fakeLocator) *Pipeline {
	return NewPipeline(PipelineDeps{
		Store:      store,
		Channel:    channel,
		Locator:    locator,
		LocalBase:  testLocalBase,
		RemoteBase: testRemoteBase,
		RunDate:    testRunDate,
	})
}

func approvedRecord(id int64, registration, category string) domain.Record {
	return domain.Record{
		ID:           id,
		Registration: registration,
		Category:     category,
		Status:       domain.StatusApproved,
	}
}

func TestRunTransfersApprovedRecord(t *testing.T) {
	t.Parallel()

	store := &fakeStore{approved: []domain.Record{
		approvedRecord(1, "C20250317-001", "Crime"),
	}}
	channel := &fakeChannel{}
	locator := &fakeLocator{matches: map[string][]string{
		testLocalBase + "/CR/C20250317/C20250317-001*": {
			testLocalBase + "/CR/C20250317/C20250317-001.html",
			testLocalBase + "/CR/C20250317/C20250317-001_arquivos",
		},
	}}

	report, err := newTestPipeline(store, channel, locator).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(report.TransferredOK) != 1 || report.TransferredOK[0] != "C20250317-001" {
		t.Fatalf("unexpected transferred list: %v", report.TransferredOK)
	}
	if len(report.TransferredFail) != 0 {
		t.Fatalf("unexpected failures: %v", report.TransferredFail)
	}

	wantDir := testRemoteBase + "/CR/C20250317/C20250317-001"
	if len(channel.mkdirs) != 1 || channel.mkdirs[0] != wantDir {
		t.Fatalf("unexpected mkdir calls: %v", channel.mkdirs)
	}
	if len(channel.copies) != 1 {
		t.Fatalf("expected one batched copy, got %d", len(channel.copies))
	}
	if len(channel.copies[0].paths) != 2 || channel.copies[0].dir != wantDir {
		t.Fatalf("unexpected copy call: %+v", channel.copies[0])
	}
	if len(store.transferred) != 1 || store.transferred[0] != 1 {
		t.Fatalf("record 1 should be marked transferred, got %v", store.transferred)
	}
}

func TestRunLocalArtifactsAbsent(t *testing.T) {
	t.Parallel()

	store := &fakeStore{approved: []domain.Record{
		approvedRecord(1, "C20250317-001", "Crime"),
	}}
	channel := &fakeChannel{}
	locator := &fakeLocator{}

	report, err := newTestPipeline(store, channel, locator).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(report.TransferredFail) != 1 || report.TransferredFail[0] != "C20250317-001" {
		t.Fatalf("record should fail transfer, got %v", report.TransferredFail)
	}
	// Absent local data must not trigger any remote call.
	if len(channel.mkdirs) != 0 || len(channel.copies) != 0 {
		t.Fatalf("remote calls made for absent local data: %v %v", channel.mkdirs, channel.copies)
	}
	if len(store.transferred) != 0 {
		t.Fatalf("record must not advance: %v", store.transferred)
	}
}

func TestRunMkdirFailureSkipsCopy(t *testing.T) {
	t.Parallel()

	store := &fakeStore{approved: []domain.Record{
		approvedRecord(1, "C20250317-001", "Crime"),
	}}
	channel := &fakeChannel{mkdirErr: errors.New("permission denied")}
	locator := &fakeLocator{matches: map[string][]string{
		testLocalBase + "/CR/C20250317/C20250317-001*": {"a.html"},
	}}

	report, err := newTestPipeline(store, channel, locator).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(report.TransferredFail) != 1 {
		t.Fatalf("record should fail transfer, got %+v", report)
	}
	if len(channel.copies) != 0 {
		t.Fatalf("copy must not run after mkdir failure")
	}
	if len(store.transferred) != 0 {
		t.Fatalf("record must not advance after mkdir failure")
	}
}

func TestRunStatusUpdateFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		approved:           []domain.Record{approvedRecord(1, "C20250317-001", "Crime")},
		markTransferredErr: errors.New("store briefly down"),
	}
	channel := &fakeChannel{}
	locator := &fakeLocator{matches: map[string][]string{
		testLocalBase + "/CR/C20250317/C20250317-001*": {"a.html"},
	}}

	report, err := newTestPipeline(store, channel, locator).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	// The copy happened; the file is the source of truth.
	if len(report.TransferredOK) != 1 {
		t.Fatalf("transfer should count as success, got %+v", report)
	}
}

func TestRunUnknownCategoryFailsWithoutRemoteCalls(t *testing.T) {
	t.Parallel()

	store := &fakeStore{approved: []domain.Record{
		approvedRecord(1, "X20250317-001", "Esporte"),
	}}
	channel := &fakeChannel{}
	locator := &fakeLocator{}

	report, err := newTestPipeline(store, channel, locator).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(report.TransferredFail) != 1 {
		t.Fatalf("unknown category should fail the record, got %+v", report)
	}
	if len(channel.mkdirs) != 0 || len(channel.copies) != 0 {
		t.Fatalf("unknown category must not reach the channel")
	}
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	t.Parallel()

	// After a successful run the record left approved status, so the
	// next fetch returns nothing and the channel stays untouched.
	store := &fakeStore{}
	channel := &fakeChannel{}

	report, err := newTestPipeline(store, channel, &fakeLocator{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(report.TransferredOK)+len(report.TransferredFail) != 0 {
		t.Fatalf("empty fetch should settle nothing: %+v", report)
	}
	if len(channel.mkdirs) != 0 || len(channel.copies) != 0 {
		t.Fatalf("no remote calls expected on empty batch")
	}
	if len(store.transferred) != 0 {
		t.Fatalf("no status updates expected on empty batch")
	}
}

func TestRunFetchErrorPropagates(t *testing.T) {
	t.Parallel()

	store := &fakeStore{fetchErr: errors.New("store unreachable")}

	_, err := newTestPipeline(store, &fakeChannel{}, &fakeLocator{}).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error when the store is unreachable")
	}
}
