package distribution

import (
	"sync"
	"testing"

	"github.com/reconhq/recon-core/internal/models"
)

func TestLedgerRecordCreatesThenIncrements(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)

	outcome := AttemptOutcome{
		PostID:   "post-1",
		PortalID: "portal-1",
		Variant:  Variant{Title: "t", Slug: "t"},
		Status:   models.DistributionFailed,
	}

	first, err := ledger.Record(outcome)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if first.RetryCount != 0 {
		t.Fatalf("first retry count = %d, want 0", first.RetryCount)
	}
	if first.SentAt == nil {
		t.Fatal("sent_at not set")
	}

	outcome.Status = models.DistributionSuccess
	outcome.ResponseMessage = "ok"
	second, err := ledger.Record(outcome)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if second.RetryCount != 1 {
		t.Fatalf("second retry count = %d, want 1", second.RetryCount)
	}
	if second.Status != models.DistributionSuccess {
		t.Fatalf("status = %s", second.Status)
	}

	var count int64
	db.Model(&models.DistributionRecordModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("row count = %d, want 1", count)
	}
}

func TestLedgerGetMissingPair(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)

	record, err := ledger.Get("nope", "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record, got %+v", record)
	}
}

func TestLedgerConcurrentRecordsStayMonotonic(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)

	const attempts = 8
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Record(AttemptOutcome{
				PostID:   "post-1",
				PortalID: "portal-1",
				Status:   models.DistributionFailed,
			})
			if err != nil {
				t.Errorf("record: %v", err)
			}
		}()
	}
	wg.Wait()

	record, err := ledger.Get("post-1", "portal-1")
	if err != nil || record == nil {
		t.Fatalf("get: %v", err)
	}
	if record.RetryCount != attempts-1 {
		t.Fatalf("retry count = %d, want %d", record.RetryCount, attempts-1)
	}
}
