package smoke

import (
	"fmt"

	service "github.com/salesdeck/pulse/internal/app"
	"github.com/salesdeck/pulse/internal/domain/model"
)

// verifyMetricsData checks the invariants the dashboard payload
// promises.
func verifyMetricsData(data *service.MetricsData, primaryMetric string) []error {
	var problems []error

	if data.DateRange.Start == "" || data.DateRange.End == "" {
		problems = append(problems, fmt.Errorf("dateRange missing from response"))
	}
	if data.DateRange.Start > data.DateRange.End {
		problems = append(problems, fmt.Errorf("dateRange reversed: %s > %s",
			data.DateRange.Start, data.DateRange.End))
	}

	for i, row := range data.Rows {
		if row.UserID == "" || row.UserName == "" {
			problems = append(problems, fmt.Errorf("row %d missing user identity", i))
		}
		if row.Team == "" {
			problems = append(problems, fmt.Errorf("row %d (%s) has empty team; expected a name or NA", i, row.UserName))
		}

		// Every stage label must be present, zero or not.
		for _, label := range model.MetricLabels {
			if _, ok := row.Values[label]; !ok {
				problems = append(problems, fmt.Errorf("row %d (%s) missing metric %q", i, row.UserName, label))
			}
		}

		counts := row.MeetingCounts
		if counts.Total != counts.Vendor+counts.External {
			problems = append(problems, fmt.Errorf("row %d (%s) meeting total %d != vendor %d + external %d",
				i, row.UserName, counts.Total, counts.Vendor, counts.External))
		}
		if row.Values[model.MetricMeeting] != counts.Total {
			problems = append(problems, fmt.Errorf("row %d (%s) Meeting value %d != meeting total %d",
				i, row.UserName, row.Values[model.MetricMeeting], counts.Total))
		}
		if data.Degraded && counts.External != 0 {
			problems = append(problems, fmt.Errorf("row %d (%s) carries external meetings in a degraded response", i, row.UserName))
		}

		// Detail records must stay newest first.
		for j := 1; j < len(row.Meetings); j++ {
			if row.Meetings[j].Timestamp.After(row.Meetings[j-1].Timestamp) {
				problems = append(problems, fmt.Errorf("row %d (%s) meeting details out of order at %d", i, row.UserName, j))
				break
			}
		}

		// Ranking by the primary metric, descending.
		if i > 0 && row.Values[primaryMetric] > data.Rows[i-1].Values[primaryMetric] {
			problems = append(problems, fmt.Errorf("rows out of order: row %d (%s=%d) above row %d (%s=%d)",
				i-1, primaryMetric, data.Rows[i-1].Values[primaryMetric],
				i, primaryMetric, row.Values[primaryMetric]))
		}
	}

	return problems
}

// verifyUsers checks the account listing payload.
func verifyUsers(users *service.UsersData) []error {
	var problems []error
	seen := make(map[string]bool, len(users.Users))
	for i, u := range users.Users {
		if u.UserID == "" {
			problems = append(problems, fmt.Errorf("user %d missing userId", i))
			continue
		}
		if seen[u.UserID] {
			problems = append(problems, fmt.Errorf("duplicate userId %s", u.UserID))
		}
		seen[u.UserID] = true
	}
	return problems
}
