package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/salesdeck/pulse/internal/domain/model"
	"github.com/salesdeck/pulse/internal/domain/reconcile"
	. "github.com/smartystreets/goconvey/convey"
)

const excludedSource = "Cold Calls (Clay + Trellus)"

type staticRoster map[string]string

func (r staticRoster) TeamFor(name string) string {
	if team, ok := r[name]; ok {
		return team
	}
	return model.TeamUnknown
}

func mustRange(t *testing.T, start, end string) model.DateRange {
	t.Helper()
	r, err := model.ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("bad fixture range: %v", err)
	}
	return r
}

func record(name string, ts time.Time, source string) model.MeetingRecord {
	return model.MeetingRecord{
		Name:         name,
		Timestamp:    ts,
		LeadName:     "Lead for " + name,
		CompanyName:  "Acme",
		CurrentStage: "Discovery",
		SourceOfLead: source,
	}
}

func TestReconcile(t *testing.T) {
	engine := reconcile.New(
		reconcile.WithExcludedLeadSource(excludedSource),
		reconcile.WithPrimaryMetric(model.MetricMeeting),
	)
	ctx := context.Background()
	dateRange := mustRange(t, "2025-10-01", "2025-10-07")
	inRange := time.Date(2025, 10, 3, 11, 0, 0, 0, time.UTC)

	Convey("Given one vendor user and one matching meeting group", t, func() {
		users := []model.VendorUser{{UserID: "1", UserName: "Aashima Soni"}}
		vendorValues := map[string]map[string]int{
			model.MetricDial:    {"1": 40},
			model.MetricMeeting: {"1": 2},
		}
		groups := []model.MeetingGroup{{
			Key:         "aashima soni",
			DisplayName: "aashima  soni",
			Records: []model.MeetingRecord{
				record("aashima  soni", inRange, "Referral"),
				record("aashima  soni", inRange.Add(24*time.Hour), "Outbound"),
				record("aashima  soni", inRange, excludedSource),
			},
		}}

		rows, stats := engine.Reconcile(ctx, users, vendorValues, groups, nil, dateRange)

		Convey("Then Meeting = vendor + in-range non-excluded externals", func() {
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Values[model.MetricMeeting], ShouldEqual, 4)
			So(rows[0].MeetingCounts.Vendor, ShouldEqual, 2)
			So(rows[0].MeetingCounts.External, ShouldEqual, 2)
			So(rows[0].MeetingCounts.Total, ShouldEqual, 4)
			So(rows[0].Meetings, ShouldHaveLength, 2)
		})

		Convey("Then the detail list is sorted newest first", func() {
			So(rows[0].Meetings[0].Timestamp.After(rows[0].Meetings[1].Timestamp), ShouldBeTrue)
			So(rows[0].Meetings[0].Source, ShouldEqual, model.MeetingDetailSourceSheet)
		})

		Convey("Then the stats count the exclusion", func() {
			So(stats.Groups, ShouldEqual, 1)
			So(stats.MatchedGroups, ShouldEqual, 1)
			So(stats.OrphanGroups, ShouldEqual, 0)
			So(stats.RecordsMatched, ShouldEqual, 2)
			So(stats.RecordsExcluded, ShouldEqual, 1)
		})
	})

	Convey("Given a vendor user with no matching groups", t, func() {
		users := []model.VendorUser{{UserID: "2", UserName: "Rahul Mathur"}}
		vendorValues := map[string]map[string]int{
			model.MetricMeeting: {"2": 3},
		}
		groups := []model.MeetingGroup{{
			Key:         "jane doe",
			DisplayName: "Jane Doe",
			Records:     []model.MeetingRecord{record("Jane Doe", inRange, "Referral")},
		}}

		rows, stats := engine.Reconcile(ctx, users, vendorValues, groups, nil, dateRange)

		Convey("Then the Meeting count equals the vendor count exactly", func() {
			So(rows[0].Values[model.MetricMeeting], ShouldEqual, 3)
			So(rows[0].MeetingCounts.External, ShouldEqual, 0)
			So(rows[0].Meetings, ShouldBeEmpty)
		})

		Convey("Then the group is an orphan", func() {
			So(stats.MatchedGroups, ShouldEqual, 0)
			So(stats.OrphanGroups, ShouldEqual, 1)
		})
	})

	Convey("Given records outside the range", t, func() {
		users := []model.VendorUser{{UserID: "1", UserName: "Aashima Soni"}}
		vendorValues := map[string]map[string]int{model.MetricMeeting: {"1": 1}}
		groups := []model.MeetingGroup{{
			Key:         "aashima soni",
			DisplayName: "Aashima Soni",
			Records: []model.MeetingRecord{
				record("Aashima Soni", time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC), "Referral"),
				record("Aashima Soni", time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), "Referral"),
				record("Aashima Soni", time.Date(2025, 10, 7, 19, 0, 0, 0, time.UTC), "Referral"),
				record("Aashima Soni", time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC), "Referral"),
			},
		}}

		rows, stats := engine.Reconcile(ctx, users, vendorValues, groups, nil, dateRange)

		Convey("Then bounds are inclusive and outside days are dropped", func() {
			So(rows[0].MeetingCounts.External, ShouldEqual, 2)
			So(stats.RecordsOutside, ShouldEqual, 2)
		})
	})

	Convey("Given a nil meeting group slice (degraded source)", t, func() {
		users := []model.VendorUser{{UserID: "1", UserName: "Aashima Soni"}}
		vendorValues := map[string]map[string]int{
			model.MetricDial:    {"1": 10},
			model.MetricMeeting: {"1": 2},
		}

		rows, stats := engine.Reconcile(ctx, users, vendorValues, nil, nil, dateRange)

		Convey("Then rows carry vendor data only", func() {
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Values[model.MetricMeeting], ShouldEqual, 2)
			So(rows[0].Meetings, ShouldBeEmpty)
			So(stats.Groups, ShouldEqual, 0)
		})
	})

	Convey("Given a roster resolver", t, func() {
		users := []model.VendorUser{
			{UserID: "1", UserName: "Aashima Soni"},
			{UserID: "2", UserName: "Someone New"},
		}
		roster := staticRoster{"Aashima Soni": "Botzilla"}

		rows, _ := engine.Reconcile(ctx, users, map[string]map[string]int{}, nil, roster, dateRange)

		Convey("Then teams resolve with an NA fallback", func() {
			So(rows[0].Team, ShouldEqual, "Botzilla")
			So(rows[1].Team, ShouldEqual, model.TeamUnknown)
		})
	})

	Convey("Given rows with tied primary metrics", t, func() {
		users := []model.VendorUser{
			{UserID: "a", UserName: "User A"},
			{UserID: "b", UserName: "User B"},
			{UserID: "c", UserName: "User C"},
		}
		vendorValues := map[string]map[string]int{
			model.MetricMeeting: {"a": 5, "b": 5, "c": 2},
		}

		rows, _ := engine.Reconcile(ctx, users, vendorValues, nil, nil, dateRange)

		Convey("Then ties keep the vendor user order and the low row sorts last", func() {
			So(rows[0].UserID, ShouldEqual, "a")
			So(rows[1].UserID, ShouldEqual, "b")
			So(rows[2].UserID, ShouldEqual, "c")
		})
	})

	Convey("Given metric values for absent users", t, func() {
		users := []model.VendorUser{{UserID: "1", UserName: "Aashima Soni"}}
		vendorValues := map[string]map[string]int{
			model.MetricDial: {"other": 99},
		}

		rows, _ := engine.Reconcile(ctx, users, vendorValues, nil, nil, dateRange)

		Convey("Then unknown users default every metric to zero", func() {
			So(rows[0].Values[model.MetricDial], ShouldEqual, 0)
			So(rows[0].Values[model.MetricConnect], ShouldEqual, 0)
		})
	})
}
