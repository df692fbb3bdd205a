package meetings

import (
	"context"
	"testing"
	"time"

	"github.com/salesdeck/pulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseTimestamp(t *testing.T) {
	Convey("Given timestamp cells in the formats sources emit", t, func() {
		Convey("Then feed-style M/D/YYYY strings parse", func() {
			ts, ok := parseTimestamp("10/14/2025 14:22:23")
			So(ok, ShouldBeTrue)
			So(ts.Year(), ShouldEqual, 2025)
			So(int(ts.Month()), ShouldEqual, 10)
			So(ts.Day(), ShouldEqual, 14)
		})

		Convey("Then bare dates parse", func() {
			ts, ok := parseTimestamp("2025-10-14")
			So(ok, ShouldBeTrue)
			So(ts, ShouldEqual, time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC))
		})

		Convey("Then spreadsheet serials convert through the 25569 epoch", func() {
			ts, ok := parseTimestamp("45000")
			So(ok, ShouldBeTrue)
			So(ts.Year(), ShouldEqual, 2023)
			So(int(ts.Month()), ShouldEqual, 3)
		})

		Convey("Then garbage and empty cells are rejected", func() {
			_, ok := parseTimestamp("next tuesday")
			So(ok, ShouldBeFalse)
			_, ok = parseTimestamp("")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestParseRecords(t *testing.T) {
	ctx := context.Background()

	Convey("Given raw rows with header drift and bad rows", t, func() {
		rows := []rawRow{
			newRawRow(map[string]any{
				"Name":           "Aashima Soni",
				"Timestamp":      "10/14/2025 14:22:23",
				"Source of Lead": "Inbound",
				"Lead Name (individual you were speaking to)": "Pat Lee",
				"Company Name":  "Acme",
				"Current Stage": "Demo",
			}),
			// lowercase headers and alias columns still resolve
			newRawRow(map[string]any{
				"user":        "Aastha Jain",
				"date":        "2025-10-15",
				"lead source": "Outbound",
			}),
			// no name: dropped
			newRawRow(map[string]any{"Timestamp": "10/14/2025 09:00:00"}),
			// unparseable timestamp: dropped
			newRawRow(map[string]any{"Name": "Ghost", "Timestamp": "soon"}),
		}

		Convey("When parsing", func() {
			records := parseRecords(ctx, rows, nil)

			Convey("Then only attributable, dated rows survive", func() {
				So(records, ShouldHaveLength, 2)
				So(records[0].Name, ShouldEqual, "Aashima Soni")
				So(records[0].LeadName, ShouldEqual, "Pat Lee")
				So(records[0].CompanyName, ShouldEqual, "Acme")
				So(records[0].CurrentStage, ShouldEqual, "Demo")
				So(records[0].SourceOfLead, ShouldEqual, "Inbound")
				So(records[1].Name, ShouldEqual, "Aastha Jain")
				So(records[1].SourceOfLead, ShouldEqual, "Outbound")
			})
		})
	})
}

func TestGroup(t *testing.T) {
	Convey("Given records with spelling variants of one person", t, func() {
		records := []model.MeetingRecord{
			{Name: "Aashima Soni", Timestamp: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)},
			{Name: "aashima  SONI", Timestamp: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)},
			{Name: "Anish Alam", Timestamp: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)},
		}

		Convey("When grouping", func() {
			groups := Group(records)

			Convey("Then variants share one group keyed by normalized name", func() {
				So(groups, ShouldHaveLength, 2)
				So(groups[0].Key, ShouldEqual, "aashima soni")
				So(groups[0].DisplayName, ShouldEqual, "Aashima Soni")
				So(groups[0].Count(), ShouldEqual, 2)
				So(groups[1].Key, ShouldEqual, "anish alam")
				So(groups[1].Count(), ShouldEqual, 1)
			})
		})
	})
}
