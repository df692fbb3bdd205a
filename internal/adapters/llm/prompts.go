package llm

import (
	"fmt"
	"time"
)

const extractionSystemPrompt = `You are a helpful assistant that extracts date ranges and intent from natural language queries about sales metrics.`

const summarySystemPrompt = `You are a helpful assistant analyzing sales metrics data. Respond with a natural, conversational text answer only. Do NOT return JSON or structured data.`

// extractionPrompt asks the model for a {startDate, endDate, intent}
// object anchored at now.
func extractionPrompt(query string, now time.Time) string {
	return fmt.Sprintf(`The user query is: %q

Current date is: %s

IMPORTANT: You must respond with ONLY a valid JSON object, no additional text, explanations, or formatting.

Please analyze the query and respond with a JSON object containing:
1. "startDate": The start date in YYYY-MM-DD format
2. "endDate": The end date in YYYY-MM-DD format
3. "intent": A brief description of what the user wants to know

For time periods like:
- "today" = current date to current date
- "yesterday" = previous date to previous date
- "last 7 days" = 7 days ago to today
- "last month" = 30 days ago to today
- "last week" = 7 days ago to today

Example response (respond exactly like this format):
{"startDate": "2025-10-01", "endDate": "2025-10-26", "intent": "Find the person with the highest number of dials"}`,
		query, now.Format("2006-01-02"))
}

// summaryPrompt asks the model to answer the query over the serialized
// metric rows.
func summaryPrompt(query string, intent DateRangeIntent, rowsJSON string) string {
	return fmt.Sprintf(`User Query: %q
Intent: %s
Date Range: %s to %s

Here is the metrics data:
%s

The data contains:
- userName: Name of the sales person
- Dial: Number of calls made
- Connect: Number of calls connected
- Pitch: Number of pitches given
- Conversation: Number of conversations held
- Meeting: Number of meetings scheduled (includes both dialer meetings and additional meetings from external sources)
- meetings: Array of detailed meeting information with timestamps, lead names, companies, current stages, and sources

Note: The meeting data excludes meetings from the configured excluded lead source as per filtering rules.

Please analyze this data and provide a clear, conversational answer to the user's query.

Guidelines:
- Use **bold** formatting for names and important numbers
- Be specific with numbers and names
- Provide context and insights
- Keep it conversational and easy to understand
- If asked for rankings, mention the top 3-5 performers
- Include relevant comparisons or insights
- When discussing meetings, you can reference the detailed meeting information including lead names, companies, and current stages

Example response format:
"Based on the data for [date range], **[Name]** has the highest number of dials with **[number] dials**. This is significantly higher than the next performer, showing exceptional activity during this period."`,
		query, intent.Intent, intent.StartDate, intent.EndDate, rowsJSON)
}
