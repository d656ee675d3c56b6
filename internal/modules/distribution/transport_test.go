package distribution

import (
	"testing"
	"time"

	"github.com/reconhq/recon-core/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildFormFieldsPortalContract(t *testing.T) {
	post := &models.MasterPostModel{
		Title:            "Summit Ends With Accord",
		ShortDescription: "short",
		Content:          "<p>body</p>",
		HeadLines:        boolPtr(true),
		BreakingNews:     boolPtr(true),
		Event:            boolPtr(true),
	}
	fields := buildFormFields(publishRequest{
		CategoryExternalID: "12",
		Author:             "reporter-alpha",
		Variant:            Variant{Title: "t", ShortDescription: "s", Content: "d", MetaTitle: "m", Slug: "t-slug"},
		Post:               post,
	})

	// The portal form keys are fixed by the external API, mixed casing included.
	for key, want := range map[string]string{
		"post_cat":     "12",
		"author":       "reporter-alpha",
		"post_tag":     "news",
		"is_active":    "1",
		"Event":        "1",
		"Head_Lines":   "1",
		"BreakingNews": "1",
		"articles":     "0",
		"trending":     "0",
	} {
		if got := fields[key]; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	for _, stale := range []string{"event", "head_lines", "breaking_news"} {
		if _, ok := fields[stale]; ok {
			t.Errorf("unexpected key %q in payload", stale)
		}
	}
}

func TestBuildFormFieldsDefaultsDatesToNow(t *testing.T) {
	today := time.Now().Format(dateLayout)

	fields := buildFormFields(publishRequest{Post: &models.MasterPostModel{}})
	if fields["Event_date"] != today {
		t.Errorf("Event_date = %q, want %q", fields["Event_date"], today)
	}
	if fields["Eventend_date"] != today {
		t.Errorf("Eventend_date = %q, want %q", fields["Eventend_date"], today)
	}
	if fields["schedule_date"] == "" {
		t.Error("schedule_date not defaulted")
	}

	when := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	fields = buildFormFields(publishRequest{Post: &models.MasterPostModel{
		EventDate:    &when,
		EventEndDate: &when,
		ScheduleDate: &when,
	}})
	if fields["Event_date"] != "2026-09-14" {
		t.Errorf("Event_date = %q", fields["Event_date"])
	}
	if fields["Eventend_date"] != "2026-09-14" {
		t.Errorf("Eventend_date = %q", fields["Eventend_date"])
	}
	if fields["schedule_date"] != "2026-09-14T10:30:00" {
		t.Errorf("schedule_date = %q", fields["schedule_date"])
	}
}
