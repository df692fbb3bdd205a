package dialer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salesdeck/pulse/internal/adapters/dialer"
	"github.com/salesdeck/pulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func mustRange(t *testing.T, start, end string) model.DateRange {
	t.Helper()
	r, err := model.ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("bad fixture range: %v", err)
	}
	return r
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	Convey("Given a vendor that returns a mixed account list", t, func() {
		var gotPath, gotAPIKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAPIKey = r.Header.Get("api_key")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"team": map[string]any{"team_id": "t-1", "team_name": "SDR"},
				"users": []map[string]any{
					{"user_id": "1", "user_name": "Aashima Soni", "can_dial": true, "team_is_active": true},
					{"user_id": "2", "user_name": "Benched User", "can_dial": false, "team_is_active": true},
					{"user_id": "3", "user_name": "Left Company", "can_dial": true, "team_is_active": false},
				},
			})
		}))
		defer srv.Close()

		client := dialer.New("ignored.example", "key-123", dialer.WithBaseURL(srv.URL))

		Convey("When fetching users", func() {
			users, team, err := client.Users(ctx)

			Convey("Then only active dialer users remain", func() {
				So(err, ShouldBeNil)
				So(users, ShouldHaveLength, 1)
				So(users[0].UserID, ShouldEqual, "1")
				So(users[0].UserName, ShouldEqual, "Aashima Soni")
				So(team, ShouldNotBeNil)
			})

			Convey("Then the API key rides in a JSON-encoded header", func() {
				So(gotPath, ShouldEqual, "/get-visible-accounts")
				So(gotAPIKey, ShouldEqual, `"key-123"`)
			})
		})
	})

	Convey("Given a vendor response without a users field", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"team": {}}`))
		}))
		defer srv.Close()

		client := dialer.New("ignored.example", "key", dialer.WithBaseURL(srv.URL))
		_, _, err := client.Users(ctx)

		Convey("Then the decode error is surfaced", func() {
			So(errors.Is(err, dialer.ErrDecode), ShouldBeTrue)
		})
	})

	Convey("Given a vendor that returns HTTP 500", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := dialer.New("ignored.example", "key", dialer.WithBaseURL(srv.URL))
		_, _, err := client.Users(ctx)

		Convey("Then the status error is surfaced", func() {
			So(errors.Is(err, dialer.ErrBadStatus), ShouldBeTrue)
		})
	})
}

func TestMetricValues(t *testing.T) {
	ctx := context.Background()

	Convey("Given a vendor serving tuple rows per metric", t, func() {
		var calls int
		var gotPath, gotSelects, gotStart string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			gotPath = r.URL.Path
			gotSelects = r.Header.Get("selects")
			gotStart = r.Header.Get("start")
			_, _ = w.Write([]byte(`[["1", 42], ["2", 7], [null, 3], ["1", 40], ["3"]]`))
		}))
		defer srv.Close()

		client := dialer.New("ignored.example", "key", dialer.WithBaseURL(srv.URL))
		stages := dialer.DefaultStages()

		Convey("When fetching all stage metrics", func() {
			values, err := client.MetricValues(ctx, stages, mustRange(t, "2025-10-01", "2025-10-07"))

			Convey("Then one call per stage is made", func() {
				So(err, ShouldBeNil)
				So(calls, ShouldEqual, len(stages))
				So(values, ShouldContainKey, model.MetricDial)
				So(values, ShouldContainKey, model.MetricMeeting)
			})

			Convey("Then parameters travel as JSON headers", func() {
				So(gotPath, ShouldEqual, "/metric-details-v6")
				So(gotStart, ShouldNotBeEmpty)

				var selects []map[string]any
				So(json.Unmarshal([]byte(gotSelects), &selects), ShouldBeNil)
				So(selects, ShouldHaveLength, 1)
			})

			Convey("Then tuples decode with all edge cases", func() {
				dial := values[model.MetricDial]
				So(dial["1"], ShouldEqual, 40) // last value wins
				So(dial["2"], ShouldEqual, 7)
				So(dial[dialer.UnknownUserID], ShouldEqual, 3) // null id
				So(dial["3"], ShouldEqual, 0)                  // missing value
			})
		})
	})

	Convey("Given an unreachable vendor", t, func() {
		client := dialer.New("ignored.example", "key", dialer.WithBaseURL("http://127.0.0.1:1"))
		_, err := client.MetricValues(ctx, dialer.DefaultStages(), mustRange(t, "2025-10-01", "2025-10-02"))

		Convey("Then the request error is surfaced", func() {
			So(errors.Is(err, dialer.ErrRequestFailed), ShouldBeTrue)
		})
	})
}

func TestDefaultStages(t *testing.T) {
	Convey("Given the default stage metrics", t, func() {
		stages := dialer.DefaultStages()

		Convey("Then all five labels appear in pipeline order", func() {
			labels := make([]string, 0, len(stages))
			for _, s := range stages {
				labels = append(labels, s.Label)
			}
			So(labels, ShouldResemble, []string{
				model.MetricDial, model.MetricConnect, model.MetricPitch,
				model.MetricConversation, model.MetricMeeting,
			})
		})

		Convey("Then Dial counts everything and Meeting only BOOKED", func() {
			So(stages[0].Selects[0].CNF, ShouldBeEmpty)

			meeting := stages[len(stages)-1]
			So(meeting.Selects[0].CNF, ShouldHaveLength, 1)
			So(meeting.Selects[0].CNF[0], ShouldHaveLength, 1)
			So(meeting.Selects[0].CNF[0][0].Operator, ShouldEqual, "IN")
		})
	})
}
